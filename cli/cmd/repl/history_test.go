package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file: %v", err)
	}

	for _, line := range []string{"$a", "  ", "$b", "$b", ":ctx", "$a"} {
		if err := h.Add(line); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"$b", ":ctx", "$a"}
	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("entries (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "$b\n:ctx\n$a\n" {
		t.Errorf("file = %q", got)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(want, reloaded.Entries()); diff != "" {
		t.Errorf("reloaded entries (-want +got):\n%s", diff)
	}

	if line, err := reloaded.Line(0); err != nil || line != "$b" {
		t.Errorf("Line(0) = %q, %v", line, err)
	}

	if _, err := reloaded.Line(3); err != ErrOutOfBounds {
		t.Errorf("Line(3) error = %v, want ErrOutOfBounds", err)
	}
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory("")

	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if err := h.Add("$x"); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}
