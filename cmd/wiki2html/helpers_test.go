package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	wiki2html "github.com/alnah/go-wiki2html"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns the text upper-cased.
type mockConverter struct {
	mu     sync.Mutex
	inputs []wiki2html.Input
	err    error
}

func (m *mockConverter) Convert(_ context.Context, in wiki2html.Input) (*wiki2html.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, in)
	if m.err != nil {
		return nil, m.err
	}
	return &wiki2html.Result{HTML: []byte(strings.ToUpper(in.Text))}, nil
}

func (m *mockConverter) pages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		out[i] = in.Page
	}
	return out
}

// mockPool hands out one converter to every worker.
type mockPool struct {
	conv       CLIConverter
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

var _ Pool = (*mockPool)(nil)

func (p *mockPool) Acquire(context.Context) (CLIConverter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testEnv is an Environment writing to buffers. Stdin is a terminal
// unless stdin text is given.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv(stdin string) *testEnv {
	var stdout, stderr bytes.Buffer
	piped := stdin != ""
	return &testEnv{
		Environment: &Environment{
			Now:             func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) },
			Stdin:           strings.NewReader(stdin),
			Stdout:          &stdout,
			Stderr:          &stderr,
			StdinIsTerminal: func() bool { return !piped },
			NewPool:         newConverterPool,
		},
		stdout: &stdout,
		stderr: &stderr,
	}
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// readFile returns the content of path, failing the test on error.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) // #nosec G304 -- test path
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
