package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/dollar/tmpl"
)

const renderContext = `
user: Ann
admin: true
items: [one, two]
`

func TestRenderRun(t *testing.T) {
	dir := t.TempDir()
	ctxFile := writeFile(t, dir, "ctx.yaml", renderContext)
	page := writeFile(t, dir, "page.tmpl", "Hi $user !\n$for i in items:\n- $i\n$end\n$if admin: (admin)\n")

	tests := []struct {
		name  string
		cmd   Render
		stdin string
		want  string
	}{
		{
			name: "file",
			cmd:  Render{Template: page},
			want: "Hi Ann !\n- one\n- two\n(admin)\n",
		},
		{
			name:  "stdin",
			cmd:   Render{Template: "-"},
			stdin: "$if !admin: no$user",
			want:  "",
		},
		{
			name:  "set overrides file",
			cmd:   Render{Template: "-", Input: Input{Set: []string{"user=Bob"}}},
			stdin: "$user",
			want:  "Bob",
		},
		{
			name:  "markdown ignored when not a terminal",
			cmd:   Render{Template: "-", Markdown: true},
			stdin: "# $user",
			want:  "# Ann",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.cmd.Context = append(tt.cmd.Context, ctxFile)
			tt.cmd.MaxDepth = 100

			ctx, out := stdio(tt.stdin)

			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRenderRunOutputFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, out := stdio("[ $name ]")

	cmd := Render{
		Input:    Input{Set: []string{"name=fresh"}, MaxDepth: 100},
		Template: "-",
		Output:   dest,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "[ fresh ]" {
		t.Errorf("file = %q, want [ fresh ]", data)
	}

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", out.String())
	}
}

func TestRenderRunFailureKeepsOutputFile(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "out.txt")

	if err := os.WriteFile(dest, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, _ := stdio("ok $missing")

	cmd := Render{Input: Input{MaxDepth: 100}, Template: "-", Output: dest}

	if err := cmd.Run(ctx); !errors.Is(err, tmpl.ErrMissingVariable) {
		t.Fatalf("Run() error = %v, want ErrMissingVariable", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "previous" {
		t.Errorf("file = %q, want it untouched", data)
	}
}

func TestRenderRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stdin    string
		want     error
		attrs    map[string]string
	}{
		{
			name:     "missing variable suggests paths",
			stdin:    "$usr",
			want:     tmpl.ErrMissingVariable,
			attrs:    map[string]string{"template": "<stdin>", "did_you_mean": "[user]"},
		},
		{
			name:     "parse error reports position",
			stdin:    "line\n$if admin yes",
			want:     tmpl.ErrParse,
			attrs:    map[string]string{"line": "2", "column": "1"},
		},
		{
			name:  "depth exceeded",
			stdin: "$if admin: $if admin: $if admin: x",
			want:  tmpl.ErrDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, out := stdio(tt.stdin)

			cmd := Render{
				Input:    Input{Set: []string{"user=Ann", "admin=true"}, MaxDepth: 2},
				Template: "-",
			}

			err := cmd.Run(ctx)
			if !errors.Is(err, ErrRender) || !errors.Is(err, tt.want) {
				t.Fatalf("Run() error = %v, want ErrRender wrapping %v", err, tt.want)
			}

			got := errorAttrs(err)
			for k, v := range tt.attrs {
				if got[k] != v {
					t.Errorf("attr %s = %q, want %q", k, got[k], v)
				}
			}

			if out.Len() != 0 {
				t.Errorf("stdout = %q, want nothing", out.String())
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	c := tmpl.NewBuilder().
		String("username", "a").
		String("user_id", "b").
		String("host", "c").
		Object("profile", tmpl.NewBuilder().String("name", "d")).
		Build()

	tests := []struct {
		err  error
		want []string
	}{
		{&tmpl.VariableError{Path: "usr"}, []string{"user_id", "username"}},
		{&tmpl.VariableError{Path: "prfname"}, []string{"profile.name"}},
		{&tmpl.VariableError{Path: "zzz"}, nil},
		{errors.New("other"), nil},
	}

	for _, tt := range tests {
		got := suggest(tt.err, c)
		slices.Sort(got)

		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("suggest(%v) mismatch (-want +got):\n%s", tt.err, diff)
		}
	}
}

// errorAttrs returns the attributes of the outermost command error in err,
// formatted as strings.
func errorAttrs(err error) map[string]string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	attrs := make(map[string]string, len(e.attrs))
	for _, a := range e.attrs {
		attrs[a.Key] = a.Value.Resolve().String()
	}

	return attrs
}
