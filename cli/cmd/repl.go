package cmd

import (
	"context"

	"github.com/ardnew/dollar/cli/cmd/repl"
	"github.com/ardnew/dollar/log"
)

// Repl starts an interactive session rendering template lines.
type Repl struct {
	Input `embed:""`

	NoHistory bool `help:"Do not read or save line history"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	c, err := r.load(ctx)
	if err != nil {
		return err
	}

	cacheDir := kongVar(ctx, CacheIdentifier)
	if r.NoHistory {
		cacheDir = ""
	}

	return repl.Run(ctx, c, cacheDir, log.Default(), r.options()...)
}
