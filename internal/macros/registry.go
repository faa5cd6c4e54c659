// Package macros provides a macro registry for the wiki engine and the
// builtin PageOutline, TitleIndex, MacroList and Timestamp macros.
package macros

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alnah/go-wiki2html/internal/wiki"
)

// Sentinel errors for registry operations.
var (
	ErrInvalidMacro   = errors.New("invalid macro")
	ErrDuplicateMacro = errors.New("duplicate macro")
	ErrUnknownMacro   = errors.New("unknown macro")
)

// ExpandFunc renders a macro. text is the argument string of a
// [[Name(args)]] call or the body of a #!Name block; args holds the
// shebang parameters of a block and is nil for calls.
type ExpandFunc func(f *wiki.Formatter, text string, args map[string]string) (string, error)

// Macro describes one named macro.
type Macro struct {
	Name        string
	Description string // wiki text
	Inline      bool
	Expand      ExpandFunc
}

// Registry holds macros by name. It is read-only once handed to an Env.
type Registry struct {
	macros map[string]Macro
	names  []string
}

// Compile-time interface checks.
var (
	_ wiki.MacroProvider  = (*Registry)(nil)
	_ wiki.MacroDescriber = (*Registry)(nil)
)

// NewRegistry creates a registry holding ms. It fails on an unnamed macro,
// a macro without Expand, or a name registered twice.
func NewRegistry(ms ...Macro) (*Registry, error) {
	r := &Registry{macros: make(map[string]Macro, len(ms))}
	for _, m := range ms {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds m to the registry.
func (r *Registry) Register(m Macro) error {
	if m.Name == "" || m.Expand == nil {
		return fmt.Errorf("%w: %q needs a name and an expand function", ErrInvalidMacro, m.Name)
	}
	if _, dup := r.macros[m.Name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateMacro, m.Name)
	}
	r.macros[m.Name] = m
	r.names = append(r.names, m.Name)
	sort.Strings(r.names)
	return nil
}

// Macros returns the registered names, sorted.
func (r *Registry) Macros() []string {
	return append([]string(nil), r.names...)
}

// ExpandMacro runs the named macro.
func (r *Registry) ExpandMacro(f *wiki.Formatter, name, text string, args map[string]string) (string, error) {
	m, ok := r.macros[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMacro, name)
	}
	return m.Expand(f, text, args)
}

// IsInline reports whether the macro output may sit inside a paragraph.
func (r *Registry) IsInline(name string) bool {
	return r.macros[name].Inline
}

// MacroDescription returns the wiki text documenting the macro.
func (r *Registry) MacroDescription(name string) string {
	return r.macros[name].Description
}
