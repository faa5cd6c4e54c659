package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantArgs   []string
		wantKwargs map[string]string
	}{
		{
			name:       "empty",
			input:      "",
			wantKwargs: map[string]string{},
		},
		{
			name:       "positional and keyword",
			input:      `a, key=c,d\,e`,
			wantArgs:   []string{"a", "d,e"},
			wantKwargs: map[string]string{"key": "c"},
		},
		{
			name:       "single letter names are positional",
			input:      "k=v",
			wantArgs:   []string{"k=v"},
			wantKwargs: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			args, kwargs := ParseArgs(tt.input)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantKwargs, kwargs)
		})
	}
}

func TestParseProcessorArgs(t *testing.T) {
	t.Parallel()

	got := parseProcessorArgs(` class="a b" id=x style='color: red'`)
	assert.Equal(t, map[string]string{"class": "a b", "id": "x", "style": "color: red"}, got)
	assert.Nil(t, parseProcessorArgs("   "))
}
