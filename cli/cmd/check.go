package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/dollar/tmpl"
)

// Check validates templates without rendering them.
type Check struct {
	Search `embed:""`

	MaxDepth  int      `default:"100" help:"Maximum block nesting depth"`
	Templates []string `arg:"" help:"Template files, names on the search path, or '-' for stdin" name:"template"`
}

// Run executes the check command. Every template is checked; the error
// reports how many failed.
func (c *Check) Run(ctx context.Context) error {
	out := stdoutFrom(ctx)

	var failed int

	for _, t := range c.Templates {
		src, name, err := c.read(ctx, t)
		if err == nil {
			_, err = tmpl.Parse(ctx, src, tmpl.WithMaxDepth(c.MaxDepth))
		}

		if err == nil {
			fmt.Fprintf(out, "%s: ok\n", name)

			continue
		}

		failed++

		var perr *tmpl.ParseError
		if errors.As(err, &perr) {
			line, col := perr.Position()
			fmt.Fprintf(out, "%s:%d:%d: %s\n%s", name, line, col, perr.Kind, perr.Snippet())

			continue
		}

		fmt.Fprintf(out, "%s: %v\n", name, err)
	}

	if failed > 0 {
		return ErrCheck.With(
			slog.Int("failed", failed),
			slog.Int("total", len(c.Templates)),
		)
	}

	return nil
}
