package wiki

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// Kind identifies the syntax rule a Token matched.
type Kind int

// Token kinds in priority order: when several rules match at the same
// position, the one listed first wins.
const (
	KindBoldItalic Kind = iota
	KindBold
	KindBoldWC
	KindItalic
	KindItalicWC
	KindUnderline
	KindStrike
	KindSubscript
	KindSuperscript
	KindInlineCode
	KindInlineCodeTick
	KindSyntax
	KindShortLink
	KindPageName
	KindLineBreak
	KindShortLinkBracket
	KindHTMLEscape
	KindMacroLink
	KindLongLink
	KindAnchor
	KindHeading
	KindListItem
	KindDefinition
	KindRowSeparator
	KindIndent
	KindTableCell

	numKinds
)

var kindNames = [numKinds]string{
	"bolditalic", "bold", "bold_wc", "italic", "italic_wc", "underline",
	"strike", "subscript", "superscript", "inlinecode", "inlinecode2",
	"syntax", "shref", "wikipagename", "linebreak_wc", "shrefbr", "htmlescape",
	"macrolink", "lhref", "anchor", "heading", "list",
	"definition", "table_row_sep", "indent", "table_cell",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

const (
	schemePattern  = `[a-zA-Z][-a-zA-Z0-9+._]*`
	xmlNamePattern = `[\p{L}_:][\p{L}\p{N}_:.-]*`
	quotedPattern  = `'[^']+'|"[^"]+"`
)

type rule struct {
	kind    Kind
	pattern string
}

// Font styles come first; external syntax is spliced in after them.
var styleRules = []rule{
	{KindBoldItalic, `!?'''''`},
	{KindBold, `!?'''`},
	{KindBoldWC, `!?\*\*`},
	{KindItalic, `!?''`},
	{KindItalicWC, `!?//`},
	{KindUnderline, `!?__`},
	{KindStrike, `!?~~`},
	{KindSubscript, `!?,,`},
	{KindSuperscript, `!?\^`},
	{KindInlineCode, `!?\{\{\{(?P<inline>.*?)\}\}\}`},
	{KindInlineCodeTick, "!?`(?P<inline2>.*?)`"},
}

// A short link is tried before a CamelCase name at the same position, so
// "Name:target" never links Name as a page.
var linkAndBlockRules = []rule{
	{KindShortLink, `!?(?P<sns>` + schemePattern + `):(?P<stgt>` + quotedPattern +
		`|[\p{L}\p{N}/?!#@](?:(?:\|[^|\s]|[^|<>\s])*[\p{L}\p{N}/=])?)`},
	{KindPageName, `!?(?:\.\.?/)*(?:[A-Z][a-z0-9]+/?){2,}(?:@[0-9]+)?(?:#[\p{L}\p{N}_:.-]+)?`},
	{KindLineBreak, `!?\\\\`},
	{KindShortLinkBracket, `!?<(?P<snsbr>` + schemePattern + `):(?P<stgtbr>[^>]+)>`},
	{KindHTMLEscape, `[&<>]`},
	{KindMacroLink, `!?\[\[(?:[^\]]|\][^\]])+\]\]`},
	{KindLongLink, `!?\[(?:(?P<lns>` + schemePattern + `):(?P<ltgt>` + quotedPattern +
		`|[^\]\s]*)|(?P<rel>[/#][^\s\]]*|\.\.?(?:[/#][^\s\]]*)?))(?:\s+(?P<label>` +
		quotedPattern + `|[^\]]+))?\]`},
	{KindAnchor, `!?\[=#(?P<anchorname>` + xmlNamePattern + `)(?:\s+(?P<anchorlabel>[^\]]*))?\]`},
	{KindHeading, `^\s*(?P<hdepth>={1,5})\s(?P<htext>.*?)(?P<hanchor>#` + xmlNamePattern + `)?\s*$`},
	{KindListItem, `^(?P<ldepth>\s*)(?:[-*\x{2022}]|(?P<lstart>[0-9]+|[a-zA-Z]|[ivxIVX]{1,5})\.)\s`},
	{KindDefinition, "^\\s+(?P<dterm>(?:`[^`]*`|\\{\\{\\{(?:\\}{0,2}[^}])*?\\}\\}\\}|[^`{:]|:[^:])+::)(?:\\s+|$)"},
	{KindRowSeparator, `^\s*\|-+\s*(?P<rparams>(?:[-\w]+=(?:"[^"]*"|'[^']*'|[-,\w]+)\s*)+)?$`},
	{KindIndent, `^(?P<idepth>\s+)`},
	{KindTableCell, `!?(?P<tcsep>=?(?:\|\|)+=?)(?P<tclast>\s*\\?$)?`},
}

type alternative struct {
	group  int
	kind   Kind
	syntax int
}

// Rules is the compiled combined pattern of every syntax rule.
type Rules struct {
	re     *regexp.Regexp
	alts   []alternative
	groups map[string]int
}

// NewRules compiles the built-in rules with extra spliced in after the
// font-style rules.
func NewRules(extra []SyntaxRule) (*Rules, error) {
	var parts []string
	add := func(name, pattern string) {
		parts = append(parts, fmt.Sprintf("(?P<%s>%s)", name, pattern))
	}
	for _, r := range styleRules {
		add(r.kind.String(), r.pattern)
	}
	for i, s := range extra {
		if _, err := regexp.Compile(s.Pattern); err != nil {
			return nil, fmt.Errorf("syntax rule %q: %w", s.Name, err)
		}
		add(fmt.Sprintf("x%d", i), s.Pattern)
	}
	for _, r := range linkAndBlockRules {
		add(r.kind.String(), r.pattern)
	}
	re, err := regexp.Compile(strings.Join(parts, "|"))
	if err != nil {
		return nil, err
	}

	rs := &Rules{re: re, groups: make(map[string]int)}
	kinds := make(map[string]Kind, numKinds)
	for k := range numKinds {
		kinds[k.String()] = k
	}
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		rs.groups[name] = i
		if k, ok := kinds[name]; ok && k != KindSyntax {
			rs.alts = append(rs.alts, alternative{group: i, kind: k, syntax: -1})
			continue
		}
		var n int
		if _, err := fmt.Sscanf(name, "x%d", &n); err == nil && fmt.Sprintf("x%d", n) == name {
			rs.alts = append(rs.alts, alternative{group: i, kind: KindSyntax, syntax: n})
		}
	}
	return rs, nil
}

// Token is one rule match within a line.
type Token struct {
	Kind   Kind
	Start  int
	End    int
	line   string
	loc    []int
	rules  *Rules
	syntax int
}

// Match returns the matched text.
func (t Token) Match() string { return t.line[t.Start:t.End] }

// Line returns the text the token was found in.
func (t Token) Line() string { return t.line }

// Group returns the text captured by the named group and whether the
// group participated in the match.
func (t Token) Group(name string) (string, bool) {
	start, end, ok := t.GroupSpan(name)
	if !ok {
		return "", false
	}
	return t.line[start:end], true
}

// GroupSpan returns the byte offsets of the named group within Line.
func (t Token) GroupSpan(name string) (int, int, bool) {
	i, ok := t.rules.groups[name]
	if !ok || t.loc[2*i] < 0 {
		return 0, 0, false
	}
	return t.loc[2*i], t.loc[2*i+1], true
}

// Escaped reports whether the match is prefixed by '!'.
func (t Token) Escaped() bool {
	return t.End > t.Start && t.line[t.Start] == '!'
}

func (r *Rules) token(line string, loc []int) Token {
	t := Token{Start: loc[0], End: loc[1], line: line, loc: loc, rules: r, syntax: -1}
	for _, a := range r.alts {
		if loc[2*a.group] >= 0 {
			t.Kind = a.kind
			t.syntax = a.syntax
			break
		}
	}
	return t
}

// Scan yields the tokens of line from left to right. Text between tokens
// is literal.
func (r *Rules) Scan(line string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, loc := range r.re.FindAllStringSubmatchIndex(line, -1) {
			if loc[0] == loc[1] {
				continue
			}
			if !yield(r.token(line, loc)) {
				return
			}
		}
	}
}

// MatchPrefix returns the token matching at the very start of text.
func (r *Rules) MatchPrefix(text string) (Token, bool) {
	loc := r.re.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return Token{}, false
	}
	return r.token(text, loc), true
}
