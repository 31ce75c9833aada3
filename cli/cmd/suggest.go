package cmd

import (
	"errors"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/dollar/tmpl"
)

// maxSuggestions bounds the paths offered for a missing variable.
const maxSuggestions = 3

// suggest returns the context paths closest to the variable missing in err,
// best match first, or nil if err is not a missing variable.
func suggest(err error, c tmpl.Context) []string {
	var verr *tmpl.VariableError
	if !errors.As(err, &verr) {
		return nil
	}

	matches := fuzzy.Find(verr.Path, c.Paths())

	var out []string

	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}

// renderError wraps a render failure of the named template, attaching the
// source position of parse errors and suggestions for missing variables.
func renderError(err error, name string, c tmpl.Context) error {
	e := ErrRender.Wrap(err).With(slog.String("template", name))

	var perr *tmpl.ParseError
	if errors.As(err, &perr) {
		line, col := perr.Position()
		e = e.With(slog.Int("line", line), slog.Int("column", col))
	}

	if hints := suggest(err, c); len(hints) > 0 {
		e = e.With(slog.Any("did_you_mean", hints))
	}

	return e
}
