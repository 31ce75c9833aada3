package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"
)

// writeFile creates name under dir with the given content and returns its
// path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

// stdio returns a context whose commands read stdin from in and write to the
// returned buffer.
func stdio(in string) (context.Context, *bytes.Buffer) {
	var out bytes.Buffer

	return WithStdio(context.Background(), strings.NewReader(in), &out), &out
}

// TestUniqueFiles tests that paths naming the same file are listed once.
func TestUniqueFiles(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.yaml", "a: 1\n")
	b := writeFile(t, dir, "b.yaml", "b: 2\n")

	link := filepath.Join(dir, "link.yaml")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	missing := filepath.Join(dir, "missing.yaml")

	got := uniqueFiles([]string{a, b, link, a, missing, stdinSource, missing})
	want := []string{a, b, missing, stdinSource, missing}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("uniqueFiles() mismatch (-want +got):\n%s", diff)
	}
}

// TestUniqueFilesRelative tests that a relative and an absolute path to the
// same file are deduplicated.
func TestUniqueFilesRelative(t *testing.T) {
	dir := t.TempDir()
	abs := writeFile(t, dir, "ctx.yaml", "x: y\n")

	t.Chdir(dir)

	got := uniqueFiles([]string{"ctx.yaml", abs, "./ctx.yaml"})
	if diff := cmp.Diff([]string{"ctx.yaml"}, got); diff != "" {
		t.Errorf("uniqueFiles() mismatch (-want +got):\n%s", diff)
	}
}

// TestKongVar tests reading variables from the kong context.
func TestKongVar(t *testing.T) {
	t.Parallel()

	if got := kongVar(context.Background(), ConfigIdentifier); got != "" {
		t.Errorf("kongVar() without kong context = %q, want empty", got)
	}

	var cli struct{}

	parser, err := kong.New(&cli, kong.Vars{CacheIdentifier: "/tmp/dollar"})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithContext(context.Background(), ktx)

	if got := kongVar(ctx, CacheIdentifier); got != "/tmp/dollar" {
		t.Errorf("kongVar(cache) = %q, want /tmp/dollar", got)
	}

	if got := kongVar(ctx, "undefined"); got != "" {
		t.Errorf("kongVar(undefined) = %q, want empty", got)
	}
}

// TestStdioDefaults tests that commands fall back to the process streams.
func TestStdioDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if stdinFrom(ctx) != os.Stdin {
		t.Error("stdinFrom() without override is not os.Stdin")
	}

	if stdoutFrom(ctx) != os.Stdout {
		t.Error("stdoutFrom() without override is not os.Stdout")
	}
}

// TestSinkCanceled tests that a sink refuses writes once its context ends.
func TestSinkCanceled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx, cancel := context.WithCancelCause(context.Background())
	s := sink{ctx: ctx, w: &buf}

	if _, err := s.Write([]byte("first")); err != nil {
		t.Fatalf("Write() before cancel: %v", err)
	}

	errStop := errors.New("stop")
	cancel(errStop)

	_, err := s.Write([]byte("second"))
	if !errors.Is(err, ErrCanceled) || !errors.Is(err, errStop) {
		t.Errorf("Write() after cancel = %v, want ErrCanceled wrapping cause", err)
	}

	if buf.String() != "first" {
		t.Errorf("written = %q, want %q", buf.String(), "first")
	}
}
