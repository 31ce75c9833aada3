package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/tmpl"
)

// envMember is the context member that --env binds the process environment
// under.
const envMember = "env"

// Input gathers the context a template renders against.
//
// Sources merge in order: context files (later files override earlier ones,
// member by member), then the process environment, then --set bindings.
type Input struct {
	Context  []string `help:"Context file (YAML or JSON), repeatable"     placeholder:"FILE"       sep:"none" short:"c" type:"existingfile"`
	Set      []string `help:"Bind a member to a literal value, repeatable" placeholder:"NAME=VALUE" sep:"none" short:"s"`
	Env      bool     `help:"Bind process environment variables under env"`
	MaxDepth int      `default:"100" help:"Maximum block nesting depth"`
}

// options returns the renderer options selected by the flags.
func (in Input) options() []tmpl.Option {
	return []tmpl.Option{
		tmpl.WithMaxDepth(in.MaxDepth),
		tmpl.WithLogger(log.Default()),
	}
}

// load merges every source into a single context.
func (in Input) load(ctx context.Context) (tmpl.Context, error) {
	root := map[string]any{}

	for _, path := range uniqueFiles(in.Context) {
		doc, err := readDocument(ctx, path)
		if err != nil {
			return tmpl.Context{}, err
		}

		merge(root, doc)
	}

	if in.Env {
		env := map[string]any{}

		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}

		root[envMember] = env
	}

	for _, set := range in.Set {
		name, value, ok := strings.Cut(set, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return tmpl.Context{}, ErrInvalidSet.With(slog.String("set", set))
		}

		sofar, err := tmpl.ContextFromNative(root)
		if err != nil {
			return tmpl.Context{}, ErrReadContext.Wrap(err)
		}

		setPath(root, strings.TrimSpace(name), tmpl.ToNative(tmpl.ParseLiteral(value, sofar)))
	}

	c, err := tmpl.ContextFromNative(root)
	if err != nil {
		return tmpl.Context{}, ErrReadContext.Wrap(err)
	}

	log.DebugContext(ctx, "context loaded",
		slog.Int("files", len(in.Context)),
		slog.Int("sets", len(in.Set)),
		slog.Bool("env", in.Env),
		slog.Int("members", c.Len()),
	)

	return c, nil
}

// readDocument decodes the YAML or JSON object in the named file, or in
// standard input for "-".
func readDocument(ctx context.Context, path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(stdinFrom(ctx))
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, ErrReadContext.Wrap(err).With(slog.String("file", path))
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, ErrReadContext.Wrap(err).With(slog.String("file", path))
	}

	return doc, nil
}

// merge copies src into dst, descending into members that are objects on
// both sides.
func merge(dst, src map[string]any) {
	for k, sv := range src {
		sm, sok := sv.(map[string]any)
		dm, dok := dst[k].(map[string]any)

		if sok && dok {
			merge(dm, sm)

			continue
		}

		if sok {
			sv = maps.Clone(sm)
		}

		dst[k] = sv
	}
}

// setPath assigns v at the dotted path name, creating intermediate objects
// and replacing any non-object found along the way.
func setPath(root map[string]any, name string, v any) {
	segs := strings.Split(name, ".")
	obj := root

	for _, seg := range segs[:len(segs)-1] {
		next, ok := obj[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			obj[seg] = next
		}

		obj = next
	}

	obj[segs[len(segs)-1]] = v
}
