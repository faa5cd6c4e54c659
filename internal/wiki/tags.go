package wiki

import "strings"

type openTag struct {
	open  string
	close string
}

// tagStack tracks the inline tags opened on the current block. Tags may be
// closed out of order: closing one re-opens every tag opened after it.
type tagStack struct {
	tags []openTag
}

func (s *tagStack) isOpen(close string) bool { return s.index(close) >= 0 }

// index returns the position of the innermost tag closed by close, or -1.
func (s *tagStack) index(close string) int {
	for i := len(s.tags) - 1; i >= 0; i-- {
		if s.tags[i].close == close {
			return i
		}
	}
	return -1
}

func (s *tagStack) push(open, close string) string {
	s.tags = append(s.tags, openTag{open: open, close: close})
	return open
}

// closeTag closes the innermost tag whose closing markup is close. The
// returned markup closes the tags above it, then it, then re-opens the
// tags above it in their original order.
func (s *tagStack) closeTag(close string) string {
	var b strings.Builder
	for i := len(s.tags) - 1; i >= 0; i-- {
		b.WriteString(s.tags[i].close)
		if s.tags[i].close != close {
			continue
		}
		above := s.tags[i+1:]
		for _, t := range above {
			b.WriteString(t.open)
		}
		s.tags = append(s.tags[:i], above...)
		return b.String()
	}
	// not open: nothing was closed
	return ""
}

func (s *tagStack) toggle(open, close string) string {
	if s.isOpen(close) {
		return s.closeTag(close)
	}
	return s.push(open, close)
}

// flush closes every open tag, innermost first.
func (s *tagStack) flush() string {
	var b strings.Builder
	for i := len(s.tags) - 1; i >= 0; i-- {
		b.WriteString(s.tags[i].close)
	}
	s.tags = s.tags[:0]
	return b.String()
}

func (s *tagStack) len() int { return len(s.tags) }
