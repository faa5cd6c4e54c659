package wiki

// NewLinkFormatter returns a Formatter rendering only the link found at
// the very start of its input.
func NewLinkFormatter(env *Env, opts ...Option) *Formatter {
	return newFormatter(env, linkFlavor, opts)
}

var linkKinds = map[Kind]bool{
	KindPageName:         true,
	KindShortLinkBracket: true,
	KindShortLink:        true,
	KindMacroLink:        true,
	KindLongLink:         true,
}

func formatLink(f *Formatter, text string) string {
	t, ok := f.env.rules.MatchPrefix(text)
	if !ok || !linkKinds[t.Kind] || t.Escaped() {
		return ""
	}
	f.line = text
	return f.handle(t)
}
