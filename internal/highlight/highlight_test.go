package highlight

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		style   string
		wantErr error
	}{
		{"default", "", nil},
		{"named", "monokai", nil},
		{"case insensitive", "GitHub", nil},
		{"unknown", "no-such-style", ErrUnknownStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.style)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderer_MimeType(t *testing.T) {
	t.Parallel()

	r, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.MimeType("python"); got == "" {
		t.Error("MimeType(python) is empty")
	}
	if got := r.MimeType("definitely-not-a-language"); got != "" {
		t.Errorf("MimeType(unknown) = %q, want empty", got)
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	r, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	mt := r.MimeType("go")
	if q := r.QualityRatio(mt); q != 2 {
		t.Fatalf("QualityRatio(%q) = %d, want 2", mt, q)
	}
	if q := r.QualityRatio("application/x-nothing"); q != 0 {
		t.Errorf("QualityRatio(unknown) = %d, want 0", q)
	}

	out, err := r.Render(mt, "package main\n\nfunc main() {}\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	wantContains := []string{`<div class="code">`, `class="chroma"`, "main"}
	for _, want := range wantContains {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := r.Render("application/x-nothing", "x"); !errors.Is(err, ErrNoLexer) {
		t.Errorf("Render(unknown) error = %v, want ErrNoLexer", err)
	}
}

func TestRenderer_CSS(t *testing.T) {
	t.Parallel()

	r, err := New("monokai")
	if err != nil {
		t.Fatal(err)
	}
	css, err := r.CSS()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS missing .chroma selector:\n%s", css)
	}
}
