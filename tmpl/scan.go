package tmpl

import (
	"log/slog"
	"strings"
)

// Reserved directive identifiers.
const (
	keywordIf  = "if"
	keywordFor = "for"
	keywordEnd = "end"
)

// forSeparator splits a for clause into its loop variable and path.
const forSeparator = " in "

// scanState is the tokenizer state, alternating on every '$'.
type scanState uint8

const (
	scanningText scanState = iota
	scanningDirective
)

// scanner carves one slice of a template into directives.
//
// All indexes used by its methods are relative to src. The scanner holds no
// state that changes while scanning, so its iterator may be ranged over any
// number of times.
type scanner struct {
	src      string // slice being scanned
	template string // outermost template, for error positions
	base     int    // offset of src within template
	depth    int    // nesting depth of src within template
	maxDepth int
}

func newScanner(src string, base int, template string, depth, maxDepth int) *scanner {
	return &scanner{
		src:      src,
		template: template,
		base:     base,
		depth:    depth,
		maxDepth: maxDepth,
	}
}

// child returns a scanner over a block body found by s.
func (s *scanner) child(src string, offset int) *scanner {
	return newScanner(src, offset, s.template, s.depth+1, s.maxDepth)
}

// header is a parsed if/for block header.
type header struct {
	path   string
	name   string
	kind   DirectiveKind
	at     int // index of the opening '$'
	colon  int // index just past ':'
	negate bool
}

// block is the scanned extent of a header and its body.
type block struct {
	header

	body, end int // body bounds
	next      int // index after the block and any consumed terminators
}

// all yields the directives of s.src in order.
func (s *scanner) all(yield func(Directive, error) bool) {
	var (
		pos   int
		state = scanningText
	)

	for pos < len(s.src) || state == scanningDirective {
		switch state {
		case scanningText:
			i := strings.IndexByte(s.src[pos:], '$')
			if i < 0 {
				yield(s.text(pos, len(s.src)), nil)

				return
			}

			if i > 0 && !yield(s.text(pos, pos+i), nil) {
				return
			}

			pos += i + 1
			state = scanningDirective

		case scanningDirective:
			at := pos - 1
			id := s.ident(pos)
			state = scanningText

			switch id {
			case "":
				// A lone '$' is literal.
				if !yield(s.text(at, pos), nil) {
					return
				}

			case keywordEnd:
				yield(Directive{}, s.fail(UnexpectedEnd, at))

				return

			case keywordIf, keywordFor:
				h, err := s.header(at, id)
				if err != nil {
					yield(Directive{}, err)

					return
				}

				b, err := s.extent(h, 0, s.depth+1)
				if err != nil {
					yield(Directive{}, err)

					return
				}

				if !yield(s.directive(b), nil) {
					return
				}

				pos = b.next

			default:
				if !yield(Directive{
					Kind:   DirectiveVariable,
					Path:   id,
					Offset: s.base + at,
					Depth:  s.depth,
				}, nil) {
					return
				}

				pos += len(id)
			}
		}
	}
}

func (s *scanner) text(from, to int) Directive {
	return Directive{
		Kind:   DirectiveText,
		Text:   s.src[from:to],
		Offset: s.base + from,
		Depth:  s.depth,
	}
}

func (s *scanner) directive(b block) Directive {
	d := Directive{
		Kind:       b.kind,
		Path:       b.path,
		Body:       s.src[b.body:b.end],
		Offset:     s.base + b.at,
		BodyOffset: s.base + b.body,
		Depth:      s.depth,
	}

	switch b.kind {
	case DirectiveIf:
		d.Negate = b.negate
	case DirectiveFor:
		d.Var = b.name
	case DirectiveText, DirectiveVariable:
	}

	return d
}

func (s *scanner) fail(kind ParseKind, at int) error {
	return newParseError(kind, s.base+at, s.template)
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' }

// ident returns the identifier beginning at i. It ends at a space, a '$' or
// a line break.
func (s *scanner) ident(i int) string {
	j := i
	for j < len(s.src) && s.src[j] != ' ' && s.src[j] != '$' && s.lineBreak(j) == 0 {
		j++
	}

	return s.src[i:j]
}

// lineBreak returns the length of the line break at i: 1 for "\n", 2 for
// "\r\n", or 0 if none starts there.
func (s *scanner) lineBreak(i int) int {
	switch {
	case i < len(s.src) && s.src[i] == '\n':
		return 1
	case i+1 < len(s.src) && s.src[i] == '\r' && s.src[i+1] == '\n':
		return 2
	default:
		return 0
	}
}

// lineEnd returns the index of the newline ending the line containing i, or
// len(s.src).
func (s *scanner) lineEnd(i int) int {
	if n := strings.IndexByte(s.src[i:], '\n'); n >= 0 {
		return i + n
	}

	return len(s.src)
}

func (s *scanner) skipBlank(i int) int {
	for i < len(s.src) && isBlank(s.src[i]) {
		i++
	}

	return i
}

// header parses the clause of the if/for directive opened at at.
// The clause ends at the first ':' on the same line.
func (s *scanner) header(at int, keyword string) (header, error) {
	start := at + 1 + len(keyword)
	eol := s.lineEnd(start)

	n := strings.IndexByte(s.src[start:eol], ':')
	if n < 0 {
		return header{}, s.fail(MissingColon, at)
	}

	h := header{at: at, colon: start + n + 1}
	clause := strings.TrimSpace(s.src[start : start+n])

	switch keyword {
	case keywordIf:
		h.kind = DirectiveIf

		if rest, ok := strings.CutPrefix(clause, "!"); ok {
			h.negate = true
			clause = strings.TrimSpace(rest)
		}

		if clause == "" {
			return header{}, s.fail(MissingPath, at)
		}

		h.path = clause

	case keywordFor:
		h.kind = DirectiveFor

		name, path, ok := strings.Cut(clause, forSeparator)
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)

		if !ok || name == "" || path == "" ||
			strings.ContainsAny(name, ". \t") {
			return header{}, s.fail(MalformedFor, at)
		}

		h.name, h.path = name, path
	}

	return h, nil
}

// oneLine reports whether the header is followed by a body on its own line.
func (s *scanner) oneLine(h header) bool {
	return strings.TrimSpace(s.src[h.colon:s.lineEnd(h.colon)]) != ""
}

// extent scans the body of h. enclosing is the number of multi-line blocks
// surrounding h within s.src, and depth is the nesting depth of its body.
func (s *scanner) extent(h header, enclosing, depth int) (block, error) {
	if depth > s.maxDepth {
		return block{}, ErrDepthExceeded.With(
			slog.Int("depth", depth),
			slog.Int("max_depth", s.maxDepth),
			slog.Int("offset", s.base+h.at),
		)
	}

	b := block{header: h}

	if !s.oneLine(h) {
		eol := s.lineEnd(h.colon)
		if eol == len(s.src) {
			return block{}, s.fail(Unterminated, h.at)
		}

		b.body = eol + 1

		end, next, ok, err := s.multiBody(b.body, enclosing+1, depth)
		if err != nil {
			return block{}, err
		}

		if !ok {
			return block{}, s.fail(Unterminated, h.at)
		}

		b.end, b.next = end, next

		return b, nil
	}

	b.body = s.skipBlank(h.colon)

	end, next, open, err := s.lineBody(b.body, enclosing, depth)
	if err != nil {
		return block{}, err
	}

	b.end, b.next = end, s.closers(next, open, enclosing)

	return b, nil
}

// multiBody finds the terminator of a multi-line body starting at start.
// Nested blocks are skipped by their own extents, so only an $end belonging
// to this body terminates it. One newline following the terminator is
// consumed, with its carriage return if any. ok is false if the input ends
// first.
func (s *scanner) multiBody(
	start, enclosing, depth int,
) (end, next int, ok bool, err error) {
	pos := start

	for {
		i := strings.IndexByte(s.src[pos:], '$')
		if i < 0 {
			return 0, 0, false, nil
		}

		i += pos
		id := s.ident(i + 1)

		switch id {
		case keywordEnd:
			next = i + 1 + len(keywordEnd)
			next += s.lineBreak(next)

			return i, next, true, nil

		case keywordIf, keywordFor:
			h, err := s.header(i, id)
			if err != nil {
				return 0, 0, false, err
			}

			b, err := s.extent(h, enclosing, depth+1)
			if err != nil {
				return 0, 0, false, err
			}

			pos = b.next

		default:
			pos = i + 1 + len(id)
		}
	}
}

// lineBody finds the end of a one-line body starting at start.
//
// The body closes at an inline $end belonging to it (open is 0 and the $end
// is consumed) or at the line break, which is left unconsumed. In the latter case open counts the
// one-line blocks still awaiting an optional closer: this block plus any
// one-line blocks nested on the same line.
func (s *scanner) lineBody(
	start, enclosing, depth int,
) (end, next, open int, err error) {
	pos := start

	for {
		j := strings.IndexAny(s.src[pos:], "$\n")
		if j < 0 {
			return len(s.src), len(s.src), 1, nil
		}

		j += pos
		if s.src[j] == '\n' {
			if j > start && s.src[j-1] == '\r' {
				j--
			}

			return j, j, 1, nil
		}

		id := s.ident(j + 1)

		switch id {
		case keywordEnd:
			return j, j + 1 + len(keywordEnd), 0, nil

		case keywordIf, keywordFor:
			h, err := s.header(j, id)
			if err != nil {
				return 0, 0, 0, err
			}

			if !s.oneLine(h) {
				b, err := s.extent(h, enclosing, depth+1)
				if err != nil {
					return 0, 0, 0, err
				}

				pos = b.next

				continue
			}

			if depth+1 > s.maxDepth {
				return 0, 0, 0, ErrDepthExceeded.With(
					slog.Int("depth", depth+1),
					slog.Int("max_depth", s.maxDepth),
					slog.Int("offset", s.base+j),
				)
			}

			_, nested, n, err := s.lineBody(s.skipBlank(h.colon), enclosing, depth+1)
			if err != nil {
				return 0, 0, 0, err
			}

			if n == 0 {
				pos = nested

				continue
			}

			return nested, nested, n + 1, nil

		default:
			pos = j + 1 + len(id)
		}
	}
}

// closers consumes the optional $end lines following a one-line body that
// ended at next with open blocks awaiting closure. One $end line is kept
// back for each enclosing multi-line block. It returns the index after the
// last consumed closer, or next if none were consumed.
func (s *scanner) closers(next, open, enclosing int) int {
	if open == 0 {
		return next
	}

	var ends []int

	for p := next; s.lineBreak(p) > 0; {
		q := s.skipBlank(p + s.lineBreak(p))
		if !strings.HasPrefix(s.src[q:], "$"+keywordEnd) {
			break
		}

		q = s.skipBlank(q + 1 + len(keywordEnd))
		if q < len(s.src) && s.lineBreak(q) == 0 {
			break
		}

		ends = append(ends, q)
		p = q
	}

	take := min(open, max(0, len(ends)-enclosing))
	if take == 0 {
		return next
	}

	return ends[take-1]
}
