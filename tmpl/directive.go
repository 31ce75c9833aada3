package tmpl

import (
	"iter"
	"log/slog"
)

// DirectiveKind identifies the shape of a [Directive].
type DirectiveKind uint8

//go:generate go tool stringer -type=DirectiveKind -trimprefix=Directive

// Directive kinds yielded by [Tokenize].
const (
	DirectiveText DirectiveKind = iota
	DirectiveVariable
	DirectiveIf
	DirectiveFor
)

// Directive is one unit of a scanned template.
//
// The fields used depend on Kind:
//   - DirectiveText: Text
//   - DirectiveVariable: Path
//   - DirectiveIf: Negate, Path, Body, BodyOffset
//   - DirectiveFor: Var, Path, Body, BodyOffset
//
// Offsets are absolute byte offsets into the template passed to the outermost
// render or tokenize call, including for directives found inside block bodies.
// Depth is 0 at the top level and one more inside each enclosing block.
//
// An If has a single Body, rendered when the condition holds. There is no
// else branch: a false condition renders nothing.
type Directive struct {
	Text       string        `json:"text,omitempty"        yaml:"text,omitempty"`
	Path       string        `json:"path,omitempty"        yaml:"path,omitempty"`
	Var        string        `json:"var,omitempty"         yaml:"var,omitempty"`
	Body       string        `json:"body,omitempty"        yaml:"body,omitempty"`
	Offset     int           `json:"offset"                yaml:"offset"`
	BodyOffset int           `json:"body_offset,omitempty" yaml:"body_offset,omitempty"`
	Depth      int           `json:"depth,omitempty"       yaml:"depth,omitempty"`
	Kind       DirectiveKind `json:"kind"                  yaml:"kind"`
	Negate     bool          `json:"negate,omitempty"      yaml:"negate,omitempty"`
}

// MarshalText implements encoding.TextMarshaler so that directive kinds
// serialize by name.
func (k DirectiveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LogValue implements slog.LogValuer.
func (d Directive) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.Int("offset", d.Offset),
	}

	switch d.Kind {
	case DirectiveText:
		attrs = append(attrs, slog.Int("length", len(d.Text)))
	case DirectiveVariable:
		attrs = append(attrs, slog.String("path", d.Path))
	case DirectiveIf:
		attrs = append(attrs,
			slog.String("path", d.Path),
			slog.Bool("negate", d.Negate),
			slog.Int("body_length", len(d.Body)),
		)
	case DirectiveFor:
		attrs = append(attrs,
			slog.String("var", d.Var),
			slog.String("path", d.Path),
			slog.Int("body_length", len(d.Body)),
		)
	}

	return slog.GroupValue(attrs...)
}

// Tokenize returns the directives of src in document order.
//
// The sequence is lazy and restartable: each range over it scans src from
// the beginning, and a block's extent is scanned only when that block is
// reached. Iteration stops after the first error, which is yielded with a
// zero Directive.
//
// Block bodies are returned unscanned; tokenize them again with
// [Directive.Directives] to descend.
//
// Only [WithMaxDepth] affects tokenizing; other options are ignored.
func Tokenize(src string, opts ...Option) iter.Seq2[Directive, error] {
	return newScanner(src, 0, src, 0, NewRenderer(opts...).maxDepth).all
}

// Directives collects [Tokenize] into a slice.
func Directives(src string, opts ...Option) ([]Directive, error) {
	return collect(Tokenize(src, opts...))
}

// Directives tokenizes the body of an If or For directive d found in
// template. Offsets of the result remain absolute within template, and the
// depth of d counts toward the limit set with [WithMaxDepth].
// It returns nil for other kinds.
func (d Directive) Directives(template string, opts ...Option) ([]Directive, error) {
	switch d.Kind {
	case DirectiveIf, DirectiveFor:
		return collect(newScanner(
			d.Body, d.BodyOffset, template, d.Depth+1, NewRenderer(opts...).maxDepth,
		).all)
	case DirectiveText, DirectiveVariable:
		return nil, nil
	default:
		return nil, nil
	}
}

func collect(seq iter.Seq2[Directive, error]) ([]Directive, error) {
	var out []Directive

	for d, err := range seq {
		if err != nil {
			return nil, err
		}

		out = append(out, d)
	}

	return out, nil
}
