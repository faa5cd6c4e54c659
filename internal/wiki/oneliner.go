package wiki

import (
	"strings"
	"unicode/utf8"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultShortenWidth is the width one-liners are cut to when shortening.
const DefaultShortenWidth = 75

// NewOneLinerFormatter returns a Formatter producing inline HTML only.
// Block syntax is kept as text and code blocks are replaced by "[…]".
func NewOneLinerFormatter(env *Env, opts ...Option) *Formatter {
	return newFormatter(env, oneLinerFlavor, opts)
}

func formatOneLiner(f *Formatter, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var kept []string
	depth := 0
	processor := ""
	for _, line := range splitLines(text) {
		var start []string
		if !strings.Contains(line, endBlock) {
			start = startBlockRe.FindStringSubmatch(line)
		}
		switch {
		case start != nil:
			depth++
			if depth == 1 {
				processor = start[3]
			}
		case strings.TrimSpace(line) == endBlock:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				if processor != "comment" {
					kept = append(kept, " [...]")
				}
				processor = ""
			}
		case depth > 0:
			if processor == "" {
				if m := shebangRe.FindStringSubmatch(line); m != nil {
					processor = m[2]
				}
			}
		default:
			kept = append(kept, line)
		}
	}

	result := strings.Join(kept, "\n")
	if f.shorten > 0 {
		result = shortenLine(strings.ReplaceAll(result, "\n", " "), f.shorten)
	}

	var b strings.Builder
	for i, line := range strings.Split(result, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.scanLine(line))
	}
	out := strings.ReplaceAll(b.String(), "[...]", "[…]")
	if strings.HasSuffix(out, "...") {
		out = strings.TrimSuffix(out, "...") + "…"
	}
	out += f.tags.flush()
	if depth > 0 {
		out += "[…]"
	}
	return out
}

// shortenLine cuts text before width characters, at the last word
// boundary when there is one, and marks the cut with " ...".
func shortenLine(text string, width int) string {
	if utf8.RuneCountInString(text) < width {
		return text
	}
	first, _, _ := strings.Cut(wordwrap.String(text, width), "\n")
	first = strings.TrimRight(first, " ")
	if first == "" || utf8.RuneCountInString(first) > width {
		first = truncate.String(text, uint(width))
	}
	return first + " ..."
}

// inlineMacro expands macros whose output is inline and keeps the others
// as text.
func inlineMacro(f *Formatter, p *Processor, match, args string) string {
	if p.Resolved() && p.IsInline() {
		return p.call(args)
	}
	return escapeHTML(match)
}
