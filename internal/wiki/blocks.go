package wiki

import (
	"fmt"
	"strconv"
	"strings"
)

type listLevel struct {
	kind  string // "ul" or "ol"
	depth int
}

// setTab drops the tabstops at or beyond depth and records depth.
func (f *Formatter) setTab(depth int) {
	for _, v := range f.tabstops.Values() {
		if v.(int) >= depth {
			f.tabstops.Remove(v)
		}
	}
	f.tabstops.Add(depth)
}

func (f *Formatter) tabs() []int {
	vals := f.tabstops.Values()
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = v.(int)
	}
	return out
}

// Lists

func (f *Formatter) listDepth() int {
	if n := len(f.lists); n > 0 {
		return f.lists[n-1].depth
	}
	return -1
}

func (f *Formatter) openList(depth int, kind, class string, start int) {
	f.closeTable()
	f.closeParagraph()
	f.closeIndentation()
	f.lists = append(f.lists, listLevel{kind: kind, depth: depth})
	f.setTab(depth)
	var attrs string
	if class != "" {
		attrs += fmt.Sprintf(` class="%s"`, class)
	}
	if start > 0 {
		attrs += fmt.Sprintf(` start="%d"`, start)
	}
	f.write("<" + kind + attrs + "><li>")
}

func (f *Formatter) closeItem() {
	f.pendingNL = false
	f.flushTags()
	f.out.WriteString("</li>")
}

func (f *Formatter) popList() {
	top := f.lists[len(f.lists)-1]
	f.lists = f.lists[:len(f.lists)-1]
	f.closeItem()
	f.out.WriteString("</" + top.kind + ">")
	if len(f.lists) == 0 {
		f.out.WriteString("\n")
	}
}

// setListDepth reconciles the list stack with an item at depth. An empty
// kind only closes the lists deeper than depth.
func (f *Formatter) setListDepth(depth int, kind, class string, start int) {
	if kind != "" && depth > f.listDepth() {
		f.openList(depth, kind, class, start)
		return
	}
	for len(f.lists) > 0 && depth < f.lists[len(f.lists)-1].depth {
		f.popList()
	}
	if kind == "" || depth < 0 {
		return
	}
	if len(f.lists) == 0 {
		f.openList(depth, kind, class, start)
		return
	}
	top := &f.lists[len(f.lists)-1]
	if top.kind != kind {
		f.popList()
		f.openList(depth, kind, class, start)
		return
	}
	top.depth = depth
	f.closeItem()
	f.out.WriteString("<li>")
}

func (f *Formatter) closeList() {
	for len(f.lists) > 0 {
		f.popList()
	}
}

// listStyle derives the list element, class and start number from an
// item marker.
func listStyle(marker string) (kind, class string, start int) {
	if marker == "" {
		return "ul", "", 0
	}
	id := marker[0]
	switch {
	case id == 'i':
		return "ol", "lowerroman", 0
	case id == 'I':
		return "ol", "upperroman", 0
	case id >= '0' && id <= '9':
		if n, err := strconv.Atoi(marker); err == nil && n != 1 {
			start = n
		}
		return "ol", "", start
	case id >= 'a' && id <= 'z':
		if len(marker) == 1 && id != 'a' {
			start = int(id-'a') + 1
		}
		return "ol", "loweralpha", start
	default:
		if len(marker) == 1 && id != 'A' {
			start = int(id-'A') + 1
		}
		return "ol", "upperalpha", start
	}
}

// Quotes

func (f *Formatter) quoteDepth() int {
	if n := len(f.quotes); n > 0 {
		return f.quotes[n-1]
	}
	return 0
}

func (f *Formatter) openQuote(depth int) {
	f.closeTable()
	f.closeParagraph()
	f.closeList()
	f.quotes = append(f.quotes, depth)
	f.setTab(depth)
	f.write("<blockquote>\n")
}

func (f *Formatter) closeQuote() {
	f.closeTable()
	f.closeParagraph()
	f.quotes = f.quotes[:len(f.quotes)-1]
	f.write("</blockquote>\n")
}

// setQuoteDepth opens one blockquote per tabstop between the current
// quote depth and depth, or closes the quotes deeper than depth.
func (f *Formatter) setQuoteDepth(depth int) {
	current := f.quoteDepth()
	if depth > current {
		f.setTab(depth)
		for _, tab := range f.tabs() {
			if tab > current {
				f.openQuote(tab)
			}
		}
	} else {
		for len(f.quotes) > 0 && depth < f.quotes[len(f.quotes)-1] {
			f.closeQuote()
		}
		if depth > 0 {
			if len(f.quotes) > 0 {
				f.quotes[len(f.quotes)-1] = depth
			} else {
				f.openQuote(depth)
			}
		}
	}
	if depth > 0 {
		f.inQuote = true
	}
}

func (f *Formatter) closeIndentation() {
	f.setQuoteDepth(0)
}

// Definition lists

func (f *Formatter) closeDefList() {
	if f.inDefList {
		f.flushTags()
		f.write("</dd></dl>\n")
	}
	f.inDefList = false
}

// Citations

// collectCitation buffers a '>' line with one quoting level removed.
func (f *Formatter) collectCitation(line string, indent int) {
	if !f.citing {
		f.closeTable()
		f.closeParagraph()
		f.closeDefList()
		for len(f.lists) > 0 && f.lists[len(f.lists)-1].depth >= indent {
			f.popList()
		}
		if indent == 0 {
			f.closeIndentation()
		}
		f.citing = true
	}
	body := line[indent+1:]
	body = strings.TrimPrefix(body, " ")
	f.citation = append(f.citation, body)
}

func (f *Formatter) flushCitation() {
	if !f.citing {
		return
	}
	text := strings.Join(f.citation, "\n")
	f.citing = false
	f.citation = nil
	f.write(`<blockquote class="citation">` + "\n")
	f.write(f.nested(f.flavor).Format(text))
	f.write("</blockquote>\n")
}
