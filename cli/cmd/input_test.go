package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/dollar/tmpl"
)

func TestInputLoad(t *testing.T) {
	dir := t.TempDir()

	base := writeFile(t, dir, "base.yaml", `
site:
  title: Home
  tags: [a, b]
draft: false
count: 3
`)
	over := writeFile(t, dir, "over.json", `{"site": {"title": "Blog"}, "draft": true}`)

	t.Setenv("DOLLAR_INPUT_TEST", "from-env")

	in := Input{
		Context: []string{base, over, base},
		Set: []string{
			"site.author=Ann",
			`greeting=site.author + "!"`,
			"flag=true",
		},
		Env: true,
	}

	ctx, _ := stdio("")

	c, err := in.load(ctx)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	checks := []struct {
		path string
		want any
	}{
		// The second listing of base is dropped, so over still wins.
		{"site.title", "Blog"},
		{"site.tags", []any{"a", "b"}},
		{"site.author", "Ann"},
		{"greeting", "Ann!"},
		{"draft", true},
		{"flag", true},
		{"count", "3"},
		{"env.DOLLAR_INPUT_TEST", "from-env"},
	}

	for _, tt := range checks {
		got := tmpl.ToNative(c.Resolve(tt.path))
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Resolve(%q) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}

func TestInputLoadStdin(t *testing.T) {
	t.Parallel()

	ctx, _ := stdio("name: piped\n")

	c, err := Input{Context: []string{stdinSource}}.load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if s, _ := c.String("name"); s != "piped" {
		t.Errorf("name = %q, want piped", s)
	}
}

func TestInputLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	list := writeFile(t, dir, "list.yaml", "- a\n- b\n")
	bad := writeFile(t, dir, "bad.yaml", "a: [b\n")

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"set without equals", Input{Set: []string{"novalue"}}, ErrInvalidSet},
		{"set without name", Input{Set: []string{" =x"}}, ErrInvalidSet},
		{"document is a list", Input{Context: []string{list}}, ErrReadContext},
		{"malformed document", Input{Context: []string{bad}}, ErrReadContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := stdio("")

			if _, err := tt.in.load(ctx); !errors.Is(err, tt.want) {
				t.Errorf("load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	dst := map[string]any{
		"a": map[string]any{"x": "1", "y": "2"},
		"b": "keep",
		"c": "scalar",
	}

	src := map[string]any{
		"a": map[string]any{"y": "3", "z": "4"},
		"c": map[string]any{"nested": true},
	}

	merge(dst, src)

	want := map[string]any{
		"a": map[string]any{"x": "1", "y": "3", "z": "4"},
		"b": "keep",
		"c": map[string]any{"nested": true},
	}

	if diff := cmp.Diff(want, dst); diff != "" {
		t.Errorf("merge() mismatch (-want +got):\n%s", diff)
	}

	// Objects copied from src must not alias it.
	dst["c"].(map[string]any)["nested"] = false

	if src["c"].(map[string]any)["nested"] != true {
		t.Error("merge() aliased a source object")
	}
}

func TestSetPath(t *testing.T) {
	t.Parallel()

	root := map[string]any{"a": "scalar"}

	setPath(root, "a.b.c", "deep")
	setPath(root, "top", true)

	want := map[string]any{
		"a":   map[string]any{"b": map[string]any{"c": "deep"}},
		"top": true,
	}

	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("setPath() mismatch (-want +got):\n%s", diff)
	}
}
