package wiki

import "strings"

type codeState struct {
	depth      int
	buf        []string
	prefix     string
	fenceStart string // indentation of the opening fence
	processor  *Processor
}

// handleCodeBlock buffers the lines of a fenced block and renders it once
// the outermost fence closes. start holds the submatches of the opening
// fence pattern, or nil for any other line.
func handleCodeBlock(f *Formatter, line string, start []string) {
	c := &f.code
	switch {
	case start != nil:
		c.depth++
		if c.depth > 1 {
			c.buf = append(c.buf, line)
			if c.processor == nil {
				c.processor = f.NewProcessor("default", nil)
			}
			return
		}
		c.buf = nil
		c.processor = nil
		c.prefix = start[1]
		c.fenceStart = start[1]
		if name := start[3]; name != "" {
			c.processor = f.NewProcessor(name, parseProcessorArgs(line[len(start[0]):]))
		}
	case strings.TrimSpace(line) == endBlock:
		c.depth--
		if c.depth == 0 {
			f.emitCodeBlock()
			return
		}
		c.buf = append(c.buf, line)
	case c.processor == nil:
		if m := shebangRe.FindStringSubmatch(line); m != nil {
			c.prefix = m[1]
			c.processor = f.NewProcessor(m[2], parseProcessorArgs(line[len(m[0]):]))
			return
		}
		c.buf = append(c.buf, line)
		c.processor = f.NewProcessor("default", nil)
	default:
		c.buf = append(c.buf, line)
	}
}

func (f *Formatter) emitCodeBlock() {
	c := &f.code
	p := c.processor
	if p == nil {
		p = f.NewProcessor("default", nil)
	}
	if !p.isTablePart() {
		f.closeTable()
	}
	f.closeParagraph()
	if c.fenceStart == "" && !p.isTablePart() {
		f.closeIndentation()
		f.closeList()
		f.closeDefList()
	}

	lines := c.buf
	if c.prefix != "" && allHavePrefix(lines, c.prefix) {
		for i, l := range lines {
			if l != "" {
				lines[i] = l[len(c.prefix):]
			}
		}
	}
	var text string
	if len(lines) > 0 {
		text = strings.Join(lines, "\n") + "\n"
	}
	c.buf = nil
	c.processor = nil

	if out := p.Process(text); out != "" {
		f.write(out + "\n")
	}
}

func allHavePrefix(lines []string, prefix string) bool {
	for _, l := range lines {
		if l != "" && !strings.HasPrefix(l, prefix) {
			return false
		}
	}
	return true
}

// countCodeBlock tracks fence nesting without rendering anything.
func countCodeBlock(f *Formatter, line string, start []string) {
	switch {
	case start != nil:
		f.code.depth++
	case strings.TrimSpace(line) == endBlock && f.code.depth > 0:
		f.code.depth--
	}
}
