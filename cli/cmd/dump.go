package cmd

import (
	"context"

	"github.com/ardnew/dollar/tmpl"
)

// Dump prints the context assembled from the context flags.
type Dump struct {
	Input `embed:""`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})" short:"f"`
	Paths  bool   `help:"List the dotted path of every leaf member instead"`
}

// Run executes the context command.
func (d *Dump) Run(ctx context.Context) error {
	c, err := d.load(ctx)
	if err != nil {
		return err
	}

	if d.Paths {
		return encode(stdoutFrom(ctx), d.Format, c.Paths())
	}

	return encode(stdoutFrom(ctx), d.Format, tmpl.ToNative(c.Value()))
}
