package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/natefinch/atomic"
	"golang.org/x/term"

	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/tmpl"
)

// defaultWrap is the Markdown wrap width used when the terminal size is
// unknown.
const defaultWrap = 80

// Render renders a template against a context.
type Render struct {
	Input  `embed:""`
	Search `embed:""`

	Template string `arg:"" default:"-" help:"Template file, name on the search path, or '-' for stdin" optional:""`
	Output   string `help:"Write output to file atomically"                  placeholder:"FILE" short:"o" type:"path"`
	Markdown bool   `help:"Format output as Markdown when stdout is a terminal"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, name, err := r.read(ctx, r.Template)
	if err != nil {
		return err
	}

	c, err := r.load(ctx)
	if err != nil {
		return err
	}

	tp, err := tmpl.Parse(ctx, src, r.options()...)
	if err != nil {
		return renderError(err, name, c)
	}

	out := stdoutFrom(ctx)
	markdown := r.Markdown && isTerminal(out)

	log.DebugContext(ctx, "render",
		slog.String("template", name),
		slog.String("output", r.Output),
		slog.Bool("markdown", markdown),
	)

	if r.Output == "" && !markdown {
		if err := tp.Execute(ctx, sink{ctx: ctx, w: out}, c); err != nil {
			return renderError(err, name, c)
		}

		return nil
	}

	// Buffer the full result so that a failed render leaves no partial file
	// and glamour sees the whole document.
	var buf bytes.Buffer
	if err := tp.Execute(ctx, sink{ctx: ctx, w: &buf}, c); err != nil {
		return renderError(err, name, c)
	}

	if markdown {
		text, err := formatMarkdown(buf.String(), terminalWidth(out))
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		buf.Reset()
		buf.WriteString(text)
	}

	if r.Output != "" {
		if err := atomic.WriteFile(r.Output, &buf); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("file", r.Output))
		}

		return nil
	}

	if _, err := io.Copy(out, &buf); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// formatMarkdown renders markdown for a terminal of the given width.
func formatMarkdown(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	return r.Render(markdown)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the column count of terminal w, or [defaultWrap].
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultWrap
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWrap
	}

	return width
}
