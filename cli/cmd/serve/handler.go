package serve

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ardnew/dollar/tmpl"
)

// request is the body of /render and /check.
type request struct {
	Context  map[string]any `json:"context"`
	Template string         `json:"template"`
}

// ErrOutputLimit is the cause of a render aborted for producing more output
// than the server allows.
var ErrOutputLimit = errors.New("render output exceeds limit")

// output buffers a render for one request. Writes fail once the request
// context is done or the buffer would exceed limit bytes.
type output struct {
	ctx   context.Context
	buf   strings.Builder
	limit int64
}

func (o *output) Write(p []byte) (int, error) {
	if err := context.Cause(o.ctx); err != nil {
		return 0, err
	}

	if int64(o.buf.Len()+len(p)) > o.limit {
		return 0, ErrOutputLimit
	}

	return o.buf.Write(p)
}

// errorBody describes a failed request.
type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Path   string `json:"path,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	const route = "render"

	start := time.Now()

	req, ok := s.decode(w, r, route, start)
	if !ok {
		return
	}

	c, err := tmpl.ContextFromNative(req.Context)
	if err != nil {
		s.fail(w, route, start, http.StatusBadRequest, outcomeInvalid, errorBody{Error: err.Error()})

		return
	}

	tp, err := tmpl.Parse(r.Context(), req.Template, s.opts...)
	if err != nil {
		s.failRender(w, route, start, err)

		return
	}

	out := &output{ctx: r.Context(), limit: s.maxOutput}
	if err := tp.Execute(r.Context(), out, c); err != nil {
		s.failRender(w, route, start, err)

		return
	}

	s.metrics.observe(route, outcomeOK, start)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out.buf.String()))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	const route = "check"

	start := time.Now()

	req, ok := s.decode(w, r, route, start)
	if !ok {
		return
	}

	if _, err := tmpl.Parse(r.Context(), req.Template, s.opts...); err != nil {
		s.failRender(w, route, start, err)

		return
	}

	s.metrics.observe(route, outcomeOK, start)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// decode reads the request body, answering 400 itself when it is malformed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, route string, start time.Time) (request, bool) {
	var req request

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.UseNumber()

	if err := dec.Decode(&req); err != nil {
		s.fail(w, route, start, http.StatusBadRequest, outcomeInvalid,
			errorBody{Error: "invalid request body: " + err.Error()})

		return req, false
	}

	return req, true
}

// failRender answers a template failure with its position or path.
func (s *Server) failRender(w http.ResponseWriter, route string, start time.Time, err error) {
	body := errorBody{Error: err.Error()}

	var (
		perr *tmpl.ParseError
		verr *tmpl.VariableError
	)

	switch {
	case errors.As(err, &perr):
		body.Kind = perr.Kind.String()
		body.Offset = &perr.Offset
		body.Line, body.Column = perr.Position()
		s.fail(w, route, start, http.StatusUnprocessableEntity, outcomeParse, body)

	case errors.As(err, &verr):
		body.Path = verr.Path
		body.Offset = &verr.Offset
		s.fail(w, route, start, http.StatusUnprocessableEntity, outcomeMissing, body)

	case errors.Is(err, tmpl.ErrDepthExceeded):
		s.fail(w, route, start, http.StatusUnprocessableEntity, outcomeParse, body)

	case errors.Is(err, ErrOutputLimit):
		s.fail(w, route, start, http.StatusUnprocessableEntity, outcomeLimit, body)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.fail(w, route, start, http.StatusServiceUnavailable, outcomeCanceled, body)

	default:
		s.fail(w, route, start, http.StatusInternalServerError, outcomeFailed, body)
	}
}

func (s *Server) fail(w http.ResponseWriter, route string, start time.Time, status int, outcome string, body errorBody) {
	s.metrics.observe(route, outcome, start)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
