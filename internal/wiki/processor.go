package wiki

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// MacroProvider expands named macros, both as [[Name(args)]] calls and as
// #!Name code blocks.
type MacroProvider interface {
	Macros() []string
	// ExpandMacro renders a macro. text is the argument string of a call
	// or the body of a block; args holds the shebang parameters of a block
	// and is nil for calls.
	ExpandMacro(f *Formatter, name, text string, args map[string]string) (string, error)
	// IsInline reports whether the macro output may sit inside a paragraph.
	IsInline(name string) bool
}

// MacroDescriber is implemented by providers that document their macros.
type MacroDescriber interface {
	MacroDescription(name string) string
}

// Renderer converts text of a MIME type to HTML, e.g. a syntax highlighter.
type Renderer interface {
	// QualityRatio rates how well the renderer handles mimetype; zero
	// means not at all.
	QualityRatio(mimetype string) int
	Render(mimetype, text string) (string, error)
}

// MimeTyper maps a short processor name such as "python" to a MIME type.
type MimeTyper interface {
	MimeType(name string) string
}

type builtinFunc func(p *Processor, text string) string

var (
	builtinProcessors map[string]builtinFunc
	inlineBuiltins    = map[string]bool{"span": true, "Span": true, "comment": true, "htmlcomment": true}
	tablePartNames    = map[string]bool{"td": true, "th": true, "tr": true}
)

func init() {
	builtinProcessors = map[string]builtinFunc{
		"html":        (*Processor).htmlProcessor,
		"htmlcomment": (*Processor).htmlCommentProcessor,
		"default":     (*Processor).defaultProcessor,
		"comment":     func(*Processor, string) string { return "" },
		"div":         (*Processor).divProcessor,
		"rtl":         (*Processor).rtlProcessor,
		"span":        (*Processor).spanProcessor,
		"Span":        (*Processor).spanProcessor,
		"table":       (*Processor).tableProcessor,
		"tr":          (*Processor).rowProcessor,
		"td":          func(p *Processor, text string) string { return p.cellProcessor("td", text) },
		"th":          func(p *Processor, text string) string { return p.cellProcessor("th", text) },
	}
}

// Processor renders a code block or macro call by name. It is resolved
// once, from builtins first, then macro providers, then MIME renderers.
type Processor struct {
	f        *Formatter
	name     string
	args     map[string]string
	builtin  builtinFunc
	macro    MacroProvider
	renderer Renderer
	mimetype string
	err      string
}

// NewProcessor resolves name. An unknown name yields a Processor whose
// output is an error message.
func (f *Formatter) NewProcessor(name string, args map[string]string) *Processor {
	p := &Processor{f: f, name: name, args: args}
	if b, ok := builtinProcessors[name]; ok {
		p.builtin = b
		return p
	}
	if m, ok := f.env.Macro(name); ok {
		p.macro = m
		return p
	}
	if r, mt := f.env.rendererFor(name); r != nil {
		p.renderer, p.mimetype = r, mt
		return p
	}
	p.err = fmt.Sprintf("No macro or processor named '%s' found", name)
	return p
}

func (e *Env) rendererFor(name string) (Renderer, string) {
	mimetype := name
	if !strings.Contains(name, "/") {
		mimetype = ""
		for _, r := range e.renderers {
			if mt, ok := r.(MimeTyper); ok {
				if mimetype = mt.MimeType(name); mimetype != "" {
					break
				}
			}
		}
		if mimetype == "" {
			return nil, ""
		}
	}
	var best Renderer
	bestQ := 0
	for _, r := range e.renderers {
		if q := r.QualityRatio(mimetype); q > bestQ {
			best, bestQ = r, q
		}
	}
	return best, mimetype
}

// Name returns the processor name.
func (p *Processor) Name() string { return p.name }

// Resolved reports whether the name matched a processor.
func (p *Processor) Resolved() bool { return p.err == "" }

// IsInline reports whether the output may stay inside a paragraph.
func (p *Processor) IsInline() bool {
	if p.macro != nil {
		return p.macro.IsInline(p.name)
	}
	return inlineBuiltins[p.name]
}

func (p *Processor) isTablePart() bool {
	return p.builtin != nil && tablePartNames[p.name]
}

// Process renders the body of a code block. Failures are logged and
// rendered as a system message quoting the block.
func (p *Processor) Process(text string) string {
	if p.err != "" {
		return unresolvedMessage(p.name)
	}
	return p.run("Processor "+p.name, text, text)
}

// call expands a [[Name(args)]] macro call.
func (p *Processor) call(args string) string {
	if p.err != "" {
		return unresolvedMessage(p.name)
	}
	return p.run(fmt.Sprintf("Macro %s(%s)", p.name, args), args, "")
}

func (p *Processor) run(label, text, block string) (out string) {
	logger := p.f.env.logger
	defer func() {
		if r := recover(); r != nil {
			out = recoverFailure(logger, label, r)
		}
	}()
	switch {
	case p.builtin != nil:
		return p.builtin(p, text)
	case p.macro != nil:
		logger.Debug("expanding macro", slog.String("macro", p.name))
		html, err := p.macro.ExpandMacro(p.f, p.name, text, p.args)
		if err != nil {
			return failureMessage(logger, label, block, err)
		}
		return html
	default:
		html, err := p.renderer.Render(p.mimetype, text)
		if err != nil {
			return failureMessage(logger, label, block, err)
		}
		return html
	}
}

// Builtins

func (p *Processor) defaultProcessor(text string) string {
	return `<pre class="wiki">` + escapeHTML(text) + `</pre>`
}

func (p *Processor) htmlProcessor(text string) string {
	env := p.f.env
	if env.unsafe {
		return text
	}
	if line, err := checkHTML(text); err != nil {
		env.logger.Warn("html block", slog.String("error", err.Error()))
		return SystemMessage("HTML parsing error: "+escapeHTML(err.Error()), line)
	}
	return env.Sanitize(text)
}

func (p *Processor) htmlCommentProcessor(text string) string {
	if strings.Contains(text, "--") {
		return SystemMessage(`Error: Forbidden character sequence "--" in htmlcomment wiki code block`, "")
	}
	return "<!--\n" + text + "-->\n"
}

func (p *Processor) divProcessor(text string) string {
	return p.element("div", p.f.RenderHTML(text))
}

func (p *Processor) rtlProcessor(text string) string {
	args := map[string]string{"dir": "rtl"}
	for k, v := range p.args {
		args[k] = v
	}
	p.args = args
	return p.element("div", p.f.RenderHTML(text))
}

func (p *Processor) spanProcessor(text string) string {
	return p.element("span", p.f.RenderOneLiner(text))
}

func (p *Processor) tableProcessor(text string) string {
	if p.args["class"] == "" {
		args := map[string]string{"class": "wiki"}
		for k, v := range p.args {
			args[k] = v
		}
		p.args = args
	}
	return p.element("table", p.tableBody(text))
}

func (p *Processor) rowProcessor(text string) string {
	p.f.openTable()
	p.f.closeTableRow(true)
	return p.element("tr", p.tableBody(text))
}

func (p *Processor) cellProcessor(cell, text string) string {
	f := p.f
	f.openTable()
	f.openTableRow("")
	f.closeTableCell()
	return p.element(cell, f.RenderHTML(text))
}

// tableBody renders rows with a nested formatter and strips the table
// element it wraps them in.
func (p *Processor) tableBody(text string) string {
	out := strings.Trim(p.f.RenderHTML(text), "\n")
	if rest, ok := strings.CutPrefix(out, `<table class="wiki">`); ok {
		out = strings.TrimSuffix(rest, "</table>")
	}
	return out
}

func (p *Processor) element(name, content string) string {
	return "<" + name + p.f.sanitizedAttrs(name, p.args) + ">" + content + "</" + name + ">"
}

// sanitizedAttrs renders attrs for element name, keeping only what the
// sanitizer lets through on an empty element.
func (f *Formatter) sanitizedAttrs(name string, attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, escapeAttr(attrs[k]))
	}
	raw := b.String()
	if f.env.unsafe {
		return raw
	}
	if f.env.sanitizer == nil {
		return ""
	}
	clean := f.env.sanitizer.Sanitize("<" + name + raw + "></" + name + ">")
	if !strings.HasPrefix(clean, "<"+name) {
		return ""
	}
	end := strings.IndexByte(clean, '>')
	if end < 0 {
		return ""
	}
	return clean[len(name)+1 : end]
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// checkHTML reports the first end tag that closes nothing, with the line
// it appears on.
func checkHTML(text string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(text))
	var open []string
	lineNo := 1
	lines := strings.Split(text, "\n")
	for {
		tt := z.Next()
		raw := z.Raw()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return lineAt(lines, lineNo), err
			}
			return "", nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if !voidElements[string(name)] {
				open = append(open, string(name))
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			i := len(open) - 1
			for i >= 0 && open[i] != string(name) {
				i--
			}
			if i < 0 {
				return lineAt(lines, lineNo), fmt.Errorf("unexpected end tag </%s>", name)
			}
			open = open[:i]
		}
		lineNo += strings.Count(string(raw), "\n")
	}
}

func lineAt(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[n-1])
}
