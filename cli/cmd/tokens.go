package cmd

import (
	"context"

	"github.com/ardnew/dollar/tmpl"
)

// Tokens prints the directive tree of a template.
type Tokens struct {
	Search `embed:""`

	Template string `arg:"" default:"-" help:"Template file, name on the search path, or '-' for stdin" optional:""`
	Format   string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})" short:"f"`
	MaxDepth int    `default:"100" help:"Maximum block nesting depth"`
}

// node is a directive with its body tokenized beneath it.
type node struct {
	tmpl.Directive `yaml:",inline"`

	Children []node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	src, name, err := t.read(ctx, t.Template)
	if err != nil {
		return err
	}

	tree, err := tokenTree(src, tmpl.WithMaxDepth(t.MaxDepth))
	if err != nil {
		return renderError(err, name, tmpl.Context{})
	}

	return encode(stdoutFrom(ctx), t.Format, tree)
}

// tokenTree tokenizes src and the bodies of its blocks, recursively.
func tokenTree(src string, opts ...tmpl.Option) ([]node, error) {
	top, err := tmpl.Directives(src, opts...)
	if err != nil {
		return nil, err
	}

	return expand(src, top, opts)
}

func expand(src string, ds []tmpl.Directive, opts []tmpl.Option) ([]node, error) {
	nodes := make([]node, len(ds))

	for i, d := range ds {
		nodes[i].Directive = d

		body, err := d.Directives(src, opts...)
		if err != nil {
			return nil, err
		}

		if len(body) == 0 {
			continue
		}

		nodes[i].Directive.Body = ""

		if nodes[i].Children, err = expand(src, body, opts); err != nil {
			return nil, err
		}
	}

	return nodes, nil
}
