package wiki

// flavor bundles the behaviors that differ between the formatter
// variants. Handler tables are copied by value, so a variant starts from
// the full table and overrides entries.
type flavor struct {
	name      string
	handlers  [numKinds]handlerFunc
	format    func(f *Formatter, text string) string
	codeBlock func(f *Formatter, line string, start []string)
	macro     func(f *Formatter, p *Processor, match, args string) string
	lineBreak string
}

var fullFlavor, oneLinerFlavor, outlineFlavor, linkFlavor *flavor

func init() {
	full := &flavor{
		name:      "html",
		format:    formatHTML,
		codeBlock: handleCodeBlock,
		macro:     expandMacro,
		lineBreak: "<br />",
	}
	h := &full.handlers
	h[KindBoldItalic] = handleBoldItalic
	h[KindBold] = styleHandler(strongOpen, strongClose)
	h[KindBoldWC] = styleHandler(strongOpen, strongClose)
	h[KindItalic] = styleHandler(emOpen, emClose)
	h[KindItalicWC] = handleItalicWC
	h[KindUnderline] = styleHandler(`<span class="underline">`, "</span>")
	h[KindStrike] = styleHandler("<del>", "</del>")
	h[KindSubscript] = styleHandler("<sub>", "</sub>")
	h[KindSuperscript] = styleHandler("<sup>", "</sup>")
	h[KindInlineCode] = inlineCodeHandler("inline")
	h[KindInlineCodeTick] = inlineCodeHandler("inline2")
	h[KindPageName] = handlePageName
	h[KindLineBreak] = handleLineBreak
	h[KindShortLinkBracket] = handleShortLinkBracket
	h[KindHTMLEscape] = handleHTMLEscape
	h[KindShortLink] = handleShortLink
	h[KindMacroLink] = handleMacroLink
	h[KindLongLink] = handleLongLink
	h[KindAnchor] = handleAnchor
	h[KindHeading] = handleHeading
	h[KindListItem] = handleListItem
	h[KindDefinition] = handleDefinition
	h[KindRowSeparator] = handleRowSeparator
	h[KindIndent] = handleIndent
	h[KindTableCell] = handleTableCell
	fullFlavor = full

	oneLiner := *full
	oneLiner.name = "oneliner"
	oneLiner.format = formatOneLiner
	oneLiner.macro = inlineMacro
	oneLiner.lineBreak = " "
	literal := func(_ *Formatter, t Token) string { return escapeHTML(t.Match()) }
	for _, k := range []Kind{KindHeading, KindListItem, KindDefinition, KindIndent, KindTableCell} {
		oneLiner.handlers[k] = literal
	}
	oneLiner.handlers[KindRowSeparator] = func(*Formatter, Token) string { return "" }
	oneLinerFlavor = &oneLiner

	outline := *full
	outline.name = "outline"
	outline.format = formatOutline
	outline.codeBlock = countCodeBlock
	outline.macro = ignoreMacro
	outline.handlers[KindHeading] = outlineHeading
	outlineFlavor = &outline

	link := outline
	link.name = "link"
	link.format = formatLink
	link.handlers[KindHeading] = func(*Formatter, Token) string { return "" }
	linkFlavor = &link
}

func ignoreMacro(*Formatter, *Processor, string, string) string { return "" }
