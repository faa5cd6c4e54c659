package wiki

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestOneLiner(t *testing.T) {
	t.Parallel()

	env := macroEnv(t)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inline markup and collapsed code block",
			input: "'''bold''' text\n{{{\ncode\n}}}\n* item",
			want:  "<strong>bold</strong> text\n […]\n* item",
		},
		{
			name:  "comment block disappears",
			input: "before\n{{{#!comment\nnote\n}}}\nafter",
			want:  "before\nafter",
		},
		{
			name:  "unterminated code block",
			input: "text\n{{{\ncode",
			want:  "text[…]",
		},
		{
			name:  "heading stays literal",
			input: "= Title =",
			want:  "= Title =",
		},
		{
			name:  "open tags are closed",
			input: "''open",
			want:  "<em>open</em>",
		},
		{
			name:  "inline macro expands",
			input: "[[Echo(x)]] and [[Block]]",
			want:  `<span class="echo">x</span> and [[Block]]`,
		},
		{
			name:  "line break becomes a space",
			input: "a[[BR]]b",
			want:  "a b",
		},
		{
			name:  "trailing ellipsis",
			input: "wait...",
			want:  "wait…",
		},
		{
			name:  "blank input",
			input: "  \n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewOneLinerFormatter(env).Format(tt.input))
		})
	}
}

func TestOneLiner_Shorten(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{})
	long := strings.TrimSpace(strings.Repeat("word ", 20))

	out := NewOneLinerFormatter(env, WithShorten(0)).Format(long)
	assert.True(t, strings.HasSuffix(out, " …"), "got %q", out)
	assert.LessOrEqual(t, utf8.RuneCountInString(out), DefaultShortenWidth+2)
	assert.NotContains(t, out, "wor …")

	short := NewOneLinerFormatter(env, WithShorten(0)).Format("two words")
	assert.Equal(t, "two words", short)

	multi := NewOneLinerFormatter(env, WithShorten(20)).Format("first line\nsecond line\nthird line")
	assert.NotContains(t, multi, "\n")
}

func TestOutline(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{})
	text := "= A =\n== B ==\n= C =\n"

	want := "<ol>\n" +
		"  <li>\n" +
		"    <a href=\"#A\">A</a>\n" +
		"    <ol>\n" +
		"      <li>\n" +
		"        <a href=\"#B\">B</a>\n" +
		"      </li>\n" +
		"    </ol>\n" +
		"  </li>\n" +
		"  <li>\n" +
		"    <a href=\"#C\">C</a>\n" +
		"  </li>\n" +
		"</ol>\n"
	assert.Equal(t, want, NewOutlineFormatter(env).Format(text))

	onlyB := "    <ol>\n" +
		"      <li>\n" +
		"        <a href=\"#B\">B</a>\n" +
		"      </li>\n" +
		"    </ol>\n"
	assert.Equal(t, onlyB, NewOutlineFormatter(env, WithOutlineDepth(2, 2)).Format(text))
	assert.Equal(t, onlyB, NewFormatter(env).RenderOutline(text, 2, 2))
}

func TestOutline_SkipsCodeAndStripsLinks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{})
	out := NewOutlineFormatter(env).Format("{{{\n= Hidden =\n}}}\n= See WikiStart =\n")
	assert.NotContains(t, out, "Hidden")
	assert.Contains(t, out, `<a href="#SeeWikiStart">See WikiStart</a>`)
	assert.Equal(t, 1, strings.Count(out, "<a "))
}

func TestOutline_Empty(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{})
	assert.Empty(t, NewOutlineFormatter(env).Format("no headings here\n"))
}

func TestLinkFormatter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Config{})
	tests := []struct {
		input string
		want  string
	}{
		{"wiki:WikiStart rest", `<a class="wiki" href="/wiki/WikiStart">wiki:WikiStart</a>`},
		{"WikiStart", `<a class="wiki" href="/wiki/WikiStart">WikiStart</a>`},
		{"[wiki:WikiStart home] tail", `<a class="wiki" href="/wiki/WikiStart">home</a>`},
		{"plain text", ""},
		{"'''bold'''", ""},
		{"text WikiStart", ""},
		{"!WikiStart", ""},
		{"= Heading =", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewLinkFormatter(env).Format(tt.input))
		})
	}
}
