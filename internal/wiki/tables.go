package wiki

import (
	"regexp"
	"strconv"
	"strings"
)

type tableState struct {
	inTable       bool
	inRow         bool
	cell          string // open cell element, "" when none
	continueRow   bool
	continueTable bool

	rowContinued bool // a row was still open when the line started
	cellsOnLine  int
}

func (t *tableState) startLine() {
	t.rowContinued = t.inRow
	t.cellsOnLine = 0
}

var nextCellRe = regexp.MustCompile(`([^!])=?\|\|`)

func (f *Formatter) openTable() {
	if f.table.inTable {
		return
	}
	f.closeParagraph()
	f.closeList()
	f.closeDefList()
	f.table.inTable = true
	f.write(`<table class="wiki">` + "\n")
}

func (f *Formatter) openTableRow(attrs string) {
	if f.table.inRow {
		return
	}
	f.table.inRow = true
	f.write("<tr" + attrs + ">")
}

// closeTableRow ends the open row unless it continues on the next line.
func (f *Formatter) closeTableRow(force bool) {
	if f.table.inRow && (!f.table.continueRow || force) {
		f.closeTableCell()
		f.table.inRow = false
		f.write("</tr>")
	}
	f.table.continueRow = false
}

func (f *Formatter) closeTableCell() {
	f.flushTags()
	if f.table.cell != "" {
		f.write("</" + f.table.cell + ">")
		f.table.cell = ""
	}
}

func (f *Formatter) closeTable() {
	if !f.table.inTable {
		return
	}
	f.closeTableRow(true)
	f.write("</table>\n")
	f.table.inTable = false
}

func handleTableCell(f *Formatter, t Token) string {
	sepStart, sepEnd, _ := t.GroupSpan("tcsep")
	prefix := t.line[:t.Start]
	if strings.TrimSpace(prefix) != "" && f.table.cellsOnLine == 0 && !f.table.rowContinued {
		return escapeHTML(t.Match())
	}
	if !f.table.inTable && !f.inQuote {
		f.closeIndentation()
	}
	f.openTable()
	f.openTableRow("")
	f.table.continueTable = true
	f.table.cellsOnLine++

	sep := t.line[sepStart:sepEnd]
	pipes := len(sep)
	cell := "td"
	if sep[0] == '=' {
		pipes--
	}
	if sep[len(sep)-1] == '=' {
		pipes--
		cell = "th"
	}
	colspan := pipes / 2
	if last, ok := t.Group("tclast"); ok {
		if strings.HasSuffix(last, `\`) {
			f.table.continueRow = true
		}
		colspan--
		if colspan == 0 {
			return ""
		}
	}

	var attrs string
	if colspan > 1 {
		attrs = ` colspan="` + strconv.Itoa(colspan) + `"`
	}
	if align := cellAlignment(t.line, sepEnd); align != "" {
		attrs += ` style="text-align: ` + align + `"`
	}

	var b strings.Builder
	if f.table.cell != "" {
		b.WriteString(f.tags.flush())
		b.WriteString("</" + f.table.cell + ">")
	}
	b.WriteString("<" + cell + attrs + ">")
	f.table.cell = cell
	return b.String()
}

// cellAlignment infers a cell's alignment from the spaces just inside its
// separators: || left ||, ||  right||, ||  center  ||.
func cellAlignment(line string, contentStart int) string {
	rest := line[contentStart:]
	alignLeft := rest != "" && rest[0] != ' '
	m := nextCellRe.FindStringSubmatchIndex(rest)
	alignRight := m != nil && rest[m[2]] != ' '
	switch {
	case alignLeft && !alignRight:
		return "left"
	case alignLeft:
		return ""
	case alignRight:
		return "right"
	case m != nil:
		text := rest[:m[3]]
		lead := len(text) - len(strings.TrimLeft(text, " "))
		trail := len(text) - len(strings.TrimRight(text, " "))
		if lead >= 2 && trail >= 2 && strings.TrimSpace(text) != "" {
			return "center"
		}
	}
	return ""
}

func handleRowSeparator(f *Formatter, t Token) string {
	f.openTable()
	f.closeTableRow(true)
	params, _ := t.Group("rparams")
	f.openTableRow(f.sanitizedAttrs("tr", parseProcessorArgs(params)))
	f.table.continueTable = true
	f.table.continueRow = true
	return ""
}
