package wiki2html

import (
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseMode - Mode names
// ---------------------------------------------------------------------------

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr error
	}{
		{"empty is html", "", ModeHTML, nil},
		{"html", "html", ModeHTML, nil},
		{"case insensitive", "OneLiner", ModeOneLiner, nil},
		{"surrounding space", " outline ", ModeOutline, nil},
		{"link", "link", ModeLink, nil},
		{"unknown", "pdf", "", ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMode(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseMode(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModes(t *testing.T) {
	t.Parallel()

	for _, m := range Modes {
		if err := m.Validate(); err != nil {
			t.Errorf("%q.Validate() error = %v", m, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPageList - Sorted page index
// ---------------------------------------------------------------------------

func TestPageList(t *testing.T) {
	t.Parallel()

	pages := NewPageList("WikiStart", "Guide/Usage", "", "Guide/Install", "WikiStart")
	pages.Add("Alpha")

	if got := pages.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}

	want := []string{"Alpha", "Guide/Install", "Guide/Usage", "WikiStart"}
	got := pages.PageNames()
	if len(got) != len(want) {
		t.Fatalf("PageNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PageNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for name, exists := range map[string]bool{"WikiStart": true, "Guide/Install": true, "Guide": false, "": false} {
		if got := pages.PageExists(name); got != exists {
			t.Errorf("PageExists(%q) = %v, want %v", name, got, exists)
		}
	}
}
