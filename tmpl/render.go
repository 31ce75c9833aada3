package tmpl

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/dollar/log"
)

// DefaultMaxDepth is the default maximum nesting depth of blocks.
// Users may modify this before rendering to change the default.
var DefaultMaxDepth = 100

// Renderer evaluates templates against a [Context].
// A Renderer is immutable after construction and safe for concurrent use.
type Renderer struct {
	logger   log.Logger // structured logger (zero value is a no-op)
	maxDepth int
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithMaxDepth sets the maximum nesting depth of blocks.
func WithMaxDepth(depth int) Option {
	return func(r *Renderer) {
		r.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer returns a Renderer configured by opts.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// MaxDepth returns the configured maximum nesting depth.
func (r *Renderer) MaxDepth() int { return r.maxDepth }

// Render renders src against c and returns the output.
// ctx carries logging context only; rendering does not observe cancellation.
func (r *Renderer) Render(ctx context.Context, c Context, src string) (string, error) {
	var buf strings.Builder

	if err := r.RenderTo(ctx, &buf, c, src); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderTo renders src against c, writing output to w as it is produced.
//
// Any error aborts rendering; w may already hold a prefix of the output.
// Errors from w are wrapped by [ErrWrite]. To cancel a render, pass a writer
// that fails once cancellation is requested.
func (r *Renderer) RenderTo(
	ctx context.Context,
	w io.Writer,
	c Context,
	src string,
) error {
	r.logger.TraceContext(ctx, "render start",
		slog.Int("source_bytes", len(src)),
		slog.Int("max_depth", r.maxDepth),
	)

	err := r.render(ctx, w, c, newScanner(src, 0, src, 0, r.maxDepth))
	if err != nil {
		r.logger.TraceContext(ctx, "render failed", slog.Any("error", err))

		return err
	}

	r.logger.TraceContext(ctx, "render complete")

	return nil
}

// render walks the directives of s, recursing into block bodies.
func (r *Renderer) render(
	ctx context.Context,
	w io.Writer,
	c Context,
	s *scanner,
) error {
	for d, err := range s.all {
		if err != nil {
			return err
		}

		switch d.Kind {
		case DirectiveText:
			if err := write(w, d.Text); err != nil {
				return err
			}

		case DirectiveVariable:
			text, ok := c.String(d.Path)
			if !ok {
				return &VariableError{Path: d.Path, Offset: d.Offset}
			}

			if err := write(w, text); err != nil {
				return err
			}

		case DirectiveIf:
			taken := c.Bool(d.Path) != d.Negate

			r.logger.TraceContext(ctx, "enter if",
				slog.String("path", d.Path),
				slog.Bool("negate", d.Negate),
				slog.Bool("taken", taken),
				slog.Int("depth", s.depth+1),
			)

			if !taken {
				continue
			}

			if err := r.render(ctx, w, c, s.child(d.Body, d.BodyOffset)); err != nil {
				return err
			}

		case DirectiveFor:
			list, ok := c.List(d.Path)
			if !ok {
				return &VariableError{Path: d.Path, Offset: d.Offset}
			}

			r.logger.TraceContext(ctx, "enter for",
				slog.String("var", d.Var),
				slog.String("path", d.Path),
				slog.Int("count", len(list)),
				slog.Int("depth", s.depth+1),
			)

			body := s.child(d.Body, d.BodyOffset)

			for i, elem := range list {
				r.logger.TraceContext(ctx, "iteration",
					slog.String("var", d.Var),
					slog.Int("index", i),
				)

				if err := r.render(ctx, w, c.Bind(d.Var, elem), body); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func write(w io.Writer, s string) error {
	if s == "" {
		return nil
	}

	if _, err := io.WriteString(w, s); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

// Render renders src against c with a [Renderer] configured by opts.
func Render(
	ctx context.Context,
	c Context,
	src string,
	opts ...Option,
) (string, error) {
	return NewRenderer(opts...).Render(ctx, c, src)
}

// RenderTo renders src against c to w with a [Renderer] configured by opts.
func RenderTo(
	ctx context.Context,
	w io.Writer,
	c Context,
	src string,
	opts ...Option,
) error {
	return NewRenderer(opts...).RenderTo(ctx, w, c, src)
}
