package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagStack(t *testing.T) {
	t.Parallel()

	t.Run("close innermost", func(t *testing.T) {
		t.Parallel()
		var s tagStack
		assert.Equal(t, "<strong>", s.toggle("<strong>", "</strong>"))
		assert.Equal(t, "</strong>", s.toggle("<strong>", "</strong>"))
		assert.Zero(t, s.len())
	})

	t.Run("crossing reopens tags above", func(t *testing.T) {
		t.Parallel()
		var s tagStack
		s.push("<strong>", "</strong>")
		s.push("<em>", "</em>")
		s.push("<del>", "</del>")
		assert.Equal(t, "</del></em></strong><em><del>", s.closeTag("</strong>"))
		assert.Equal(t, 2, s.len())
		assert.False(t, s.isOpen("</strong>"))
		assert.Equal(t, "</del></em>", s.flush())
	})

	t.Run("closing a tag that is not open", func(t *testing.T) {
		t.Parallel()
		var s tagStack
		s.push("<em>", "</em>")
		assert.Empty(t, s.closeTag("</strong>"))
		assert.Equal(t, 1, s.len())
	})

	t.Run("flush empties the stack", func(t *testing.T) {
		t.Parallel()
		var s tagStack
		assert.Empty(t, s.flush())
		s.push("<sub>", "</sub>")
		assert.Equal(t, "</sub>", s.flush())
		assert.Empty(t, s.flush())
	})
}
