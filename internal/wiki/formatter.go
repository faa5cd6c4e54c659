package wiki

import (
	"fmt"
	"log/slog"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

// Option configures a Formatter.
type Option func(*Formatter)

// WithPage sets the wiki page being rendered. Relative links and scoped
// page names resolve against it.
func WithPage(name string) Option {
	return func(f *Formatter) { f.page = name }
}

// WithShorten makes a one-liner formatter cut its output at a word
// boundary before width characters. A width of zero uses
// DefaultShortenWidth.
func WithShorten(width int) Option {
	return func(f *Formatter) {
		if width <= 0 {
			width = DefaultShortenWidth
		}
		f.shorten = width
	}
}

// WithOutlineDepth bounds the headings kept by an outline formatter.
func WithOutlineDepth(minDepth, maxDepth int) Option {
	return func(f *Formatter) {
		f.outlineMin, f.outlineMax = minDepth, maxDepth
	}
}

// withSource records the top-level text for nested formatters.
func withSource(text string) Option {
	return func(f *Formatter) { f.source, f.nestedIn = text, true }
}

var (
	startBlockRe = regexp.MustCompile(`^(\s*)\{\{\{(?:(\s*)#!([\w+-][\w+/-]*)|\s*$)`)
	shebangRe    = regexp.MustCompile(`^(\s*)#!([\w+-][\w+/-]*)`)
	citationRe   = regexp.MustCompile(`^(\s*)>`)
	ruleLineRe   = regexp.MustCompile(`^-{4,}\s*$`)
)

const endBlock = "}}}"

// Formatter renders wiki text. A Formatter must not be used from several
// goroutines and must not be re-entered from a macro or resolver; nested
// content is rendered with RenderHTML, RenderOneLiner or RenderOutline.
type Formatter struct {
	env    *Env
	flavor *flavor

	page       string
	source     string
	nestedIn   bool
	shorten    int
	outlineMin int
	outlineMax int

	running bool

	out       strings.Builder
	lineBuf   *strings.Builder
	pendingNL bool
	line      string

	tags    tagStack
	anchors map[string]bool

	paragraphOpen bool
	inListItem    bool
	inQuote       bool
	inDefList     bool
	lists         []listLevel
	quotes        []int
	tabstops      *treeset.Set

	table    tableState
	code     codeState
	citation []string
	citing   bool

	outline []outlineEntry
}

func newFormatter(env *Env, fl *flavor, opts []Option) *Formatter {
	f := &Formatter{env: env, flavor: fl, outlineMin: 1, outlineMax: 6}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFormatter returns a Formatter producing full HTML.
func NewFormatter(env *Env, opts ...Option) *Formatter {
	return newFormatter(env, fullFlavor, opts)
}

// Env returns the environment the formatter renders against.
func (f *Formatter) Env() *Env { return f.env }

// Page returns the page being rendered, or "".
func (f *Formatter) Page() string { return f.page }

// Source returns the top-level text being rendered. Nested formatters
// report the text of the document that contains them.
func (f *Formatter) Source() string { return f.source }

// Flavor names the kind of output: "html", "oneliner", "outline" or "link".
func (f *Formatter) Flavor() string { return f.flavor.name }

// Format renders text. It always returns, turning every recoverable
// failure into inline markup.
func (f *Formatter) Format(text string) (html string) {
	if f.running {
		panic("wiki: Formatter.Format called re-entrantly")
	}
	f.running = true
	defer func() {
		f.running = false
		if r := recover(); r != nil {
			f.env.logger.Error("formatting failed",
				slog.String("flavor", f.flavor.name),
				slog.String("error", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())),
			)
			html = SystemMessage("Error: Wiki formatting failed", fmt.Sprint(r))
		}
	}()
	if !f.nestedIn {
		f.source = text
	}
	f.reset()
	return f.flavor.format(f, text)
}

// nested returns a fresh formatter sharing env, page and source.
func (f *Formatter) nested(fl *flavor, opts ...Option) *Formatter {
	base := []Option{WithPage(f.page), withSource(f.source)}
	return newFormatter(f.env, fl, append(base, opts...))
}

// RenderHTML renders text as a block of HTML with a new Formatter.
func (f *Formatter) RenderHTML(text string) string {
	return f.nested(fullFlavor).Format(text)
}

// RenderOneLiner renders text as inline HTML with a new Formatter.
func (f *Formatter) RenderOneLiner(text string) string {
	return f.nested(oneLinerFlavor).Format(text)
}

// RenderOutline renders the heading outline of text with a new Formatter.
func (f *Formatter) RenderOutline(text string, minDepth, maxDepth int) string {
	return f.nested(outlineFlavor, WithOutlineDepth(minDepth, maxDepth)).Format(text)
}

func (f *Formatter) reset() {
	f.out.Reset()
	f.lineBuf = nil
	f.pendingNL = false
	f.line = ""
	f.tags = tagStack{}
	f.anchors = make(map[string]bool)
	f.paragraphOpen = false
	f.inListItem = false
	f.inQuote = false
	f.inDefList = false
	f.lists = nil
	f.quotes = nil
	f.tabstops = treeset.NewWithIntComparator()
	f.table = tableState{}
	f.code = codeState{}
	f.citation = nil
	f.citing = false
	f.outline = nil
}

// write appends markup to the output, first emitting the line break held
// back after a list item's text.
func (f *Formatter) write(s string) {
	if s == "" {
		return
	}
	if f.pendingNL {
		f.out.WriteString("\n")
		f.pendingNL = false
	}
	f.out.WriteString(s)
}

// splitLines splits text into lines, ignoring the empty line after a
// final newline.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// formatHTML is the block engine shared by the html and outline flavors.
func formatHTML(f *Formatter, text string) string {
	f.run(text)
	return f.out.String()
}

func (f *Formatter) run(text string) {
	for _, line := range splitLines(text) {
		f.formatLine(line)
	}
	f.finish()
}

func (f *Formatter) formatLine(line string) {
	var start []string
	if !strings.Contains(line, endBlock) {
		start = startBlockRe.FindStringSubmatch(line)
	}
	if f.code.depth > 0 || start != nil {
		f.flushCitation()
		f.flavor.codeBlock(f, line, start)
		return
	}

	if m := citationRe.FindStringSubmatch(line); m != nil {
		f.collectCitation(line, len(m[1]))
		return
	}
	f.flushCitation()

	if ruleLineRe.MatchString(line) {
		f.closeBlocks()
		f.write("<hr />\n")
		return
	}
	if strings.TrimSpace(line) == "" {
		f.closeBlocks()
		return
	}

	line = expandTabs(line)
	if line[0] != ' ' {
		f.tabstops.Clear()
	}
	f.inListItem = false
	f.inQuote = false
	f.table.startLine()

	result := f.scanLine(line)

	if !f.inListItem {
		f.closeList()
	}
	if !f.inQuote {
		f.closeIndentation()
	}
	if f.inDefList && line[0] != ' ' {
		f.closeDefList()
	}
	if f.table.inTable && !f.table.continueTable {
		f.closeTable()
	}
	f.table.continueTable = false

	switch {
	case f.table.inTable:
		f.write(result)
		f.closeTableRow(false)
		f.write("\n")
	case f.inListItem && len(f.lists) > 0:
		f.write(result)
		if result != "" {
			f.pendingNL = true
		}
	case f.inDefList:
		f.write(result + "\n")
	case result != "":
		f.openParagraph()
		f.write(result + "\n")
	}
}

// closeBlocks ends every open block at a paragraph boundary.
func (f *Formatter) closeBlocks() {
	f.closeTable()
	f.closeParagraph()
	f.closeIndentation()
	f.closeList()
	f.closeDefList()
}

func (f *Formatter) finish() {
	for f.code.depth > 0 {
		f.flavor.codeBlock(f, endBlock, nil)
	}
	f.flushCitation()
	f.closeTable()
	f.closeParagraph()
	f.closeIndentation()
	f.closeList()
	f.closeDefList()
	f.flushTags()
}

// scanLine runs the token handlers over line and returns the markup they
// produced, with unmatched text kept as is.
func (f *Formatter) scanLine(line string) string {
	f.line = line
	var b strings.Builder
	f.lineBuf = &b
	defer func() { f.lineBuf = nil }()

	pos := 0
	for t := range f.env.rules.Scan(line) {
		b.WriteString(line[pos:t.Start])
		b.WriteString(f.handle(t))
		pos = t.End
	}
	b.WriteString(line[pos:])
	return b.String()
}

func (f *Formatter) handle(t Token) string {
	if t.Escaped() {
		return escapeHTML(t.Match()[1:])
	}
	if t.Kind == KindSyntax {
		return f.handleSyntax(t)
	}
	h := f.flavor.handlers[t.Kind]
	if h == nil {
		return escapeHTML(t.Match())
	}
	return h(f, t)
}

func (f *Formatter) handleSyntax(t Token) (out string) {
	rule := f.env.syntax[t.syntax]
	defer func() {
		if r := recover(); r != nil {
			out = recoverFailure(f.env.logger, "Syntax "+rule.Name, r)
		}
	}()
	if rule.Handle == nil {
		return escapeHTML(t.Match())
	}
	return rule.Handle(f, t)
}

// interruptParagraph emits block markup produced in the middle of a line.
// Text already scanned on the line stays in the paragraph, which is then
// closed.
func (f *Formatter) interruptParagraph(block string) {
	if f.lineBuf != nil && f.lineBuf.Len() > 0 {
		f.openParagraph()
		f.write(f.lineBuf.String() + "\n")
		f.lineBuf.Reset()
	}
	f.closeParagraph()
	f.write(block + "\n")
}

func (f *Formatter) flushTags() {
	f.write(f.tags.flush())
}

func (f *Formatter) openParagraph() {
	if !f.paragraphOpen {
		f.write("<p>\n")
		f.paragraphOpen = true
	}
}

func (f *Formatter) closeParagraph() {
	f.flushTags()
	if f.paragraphOpen {
		f.write("</p>\n")
		f.paragraphOpen = false
	}
}

// inParagraphContext reports whether inline output on the current line
// lands in a paragraph.
func (f *Formatter) inParagraphContext() bool {
	return !(f.inListItem || f.inDefList || f.table.inTable)
}
