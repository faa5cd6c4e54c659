package wiki2html

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// PageList is a sorted, duplicate-free PageIndex. Add pages before
// handing the list to a Converter; lookups are then safe from several
// goroutines.
type PageList struct {
	names *treeset.Set
}

// Compile-time interface implementation check.
var _ PageIndex = (*PageList)(nil)

// NewPageList returns a list holding names.
func NewPageList(names ...string) *PageList {
	p := &PageList{names: treeset.NewWithStringComparator()}
	p.Add(names...)
	return p
}

// Add inserts names, ignoring empty ones and duplicates.
func (p *PageList) Add(names ...string) {
	for _, n := range names {
		if n != "" {
			p.names.Add(n)
		}
	}
}

// PageExists reports whether name was added.
func (p *PageList) PageExists(name string) bool {
	return p.names.Contains(name)
}

// PageNames returns the pages in sorted order.
func (p *PageList) PageNames() []string {
	out := make([]string, 0, p.names.Size())
	p.names.Each(func(_ int, v any) {
		out = append(out, v.(string))
	})
	return out
}

// Len returns the number of pages.
func (p *PageList) Len() int {
	return p.names.Size()
}
