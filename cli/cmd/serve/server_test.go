package serve

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/dollar/tmpl"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}

	return body
}

func TestServer_Render(t *testing.T) {
	t.Cleanup(tmpl.ClearCache)

	s := New()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"variable",
			`{"template": "hello $name", "context": {"name": "world"}}`,
			"hello world",
		},
		{
			"loop",
			`{"template": "$for x in items: $x ", "context": {"items": ["A", "B", "C"]}}`,
			"A B C ",
		},
		{
			"numbers are strings",
			`{"template": "$n", "context": {"n": 1.50}}`,
			"1.50",
		},
		{
			"no context",
			`{"template": "plain"}`,
			"plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, "/render", tt.body)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}

			if got := rec.Body.String(); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServer_RenderErrors(t *testing.T) {
	t.Cleanup(tmpl.ClearCache)

	s := New()

	zero, three, four := 0, 3, 4

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   errorBody
	}{
		{
			"parse error",
			"/render",
			`{"template": "ok\n$if x y"}`,
			http.StatusUnprocessableEntity,
			errorBody{Kind: "missing ':' in block header", Offset: &three, Line: 2, Column: 1},
		},
		{
			"missing variable",
			"/render",
			`{"template": "hey $who", "context": {}}`,
			http.StatusUnprocessableEntity,
			errorBody{Path: "who", Offset: &four},
		},
		{
			"non-string variable",
			"/render",
			`{"template": "$b", "context": {"b": true}}`,
			http.StatusUnprocessableEntity,
			errorBody{Path: "b", Offset: &zero},
		},
		{
			"check parse error",
			"/check",
			`{"template": "$end"}`,
			http.StatusUnprocessableEntity,
			errorBody{Kind: "unexpected $end", Offset: &zero, Line: 1, Column: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.path, tt.body)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			got := decodeError(t, rec)
			if got.Error == "" {
				t.Error("error message is empty")
			}

			got.Error = ""
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("error body (-want +got):\n%s", diff)
			}
		})
	}
}

func TestServer_RenderOutputBounded(t *testing.T) {
	t.Cleanup(tmpl.ClearCache)

	nested := strings.Repeat(`$for x in l:\n`, 40) + `ab\n` + strings.Repeat(`$end\n`, 40)

	tests := []struct {
		name    string
		limit   int64
		body    string
		status  int
		outcome string
	}{
		{
			"within limit",
			8,
			`{"template": "$for x in l: $x", "context": {"l": ["a", "b"]}}`,
			http.StatusOK,
			outcomeOK,
		},
		{
			"over limit",
			8,
			`{"template": "$for x in l: $x", "context": {"l": ["abcd", "efgh", "ijkl"]}}`,
			http.StatusUnprocessableEntity,
			outcomeLimit,
		},
		{
			"exponential nesting",
			1 << 20,
			`{"template": "` + nested + `", "context": {"l": ["1", "2"]}}`,
			http.StatusUnprocessableEntity,
			outcomeLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(WithMaxOutput(tt.limit))

			rec := post(t, s, "/render", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}

			if tt.status != http.StatusOK {
				if got := decodeError(t, rec); !strings.Contains(got.Error, ErrOutputLimit.Error()) {
					t.Errorf("error = %q, want it to mention %q", got.Error, ErrOutputLimit)
				}
			}

			rec = httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			want := `dollar_renders_total{outcome="` + tt.outcome + `",route="render"} 1`
			if !strings.Contains(rec.Body.String(), want) {
				t.Errorf("metrics output lacks %s", want)
			}
		})
	}
}

func TestServer_RenderCanceled(t *testing.T) {
	t.Cleanup(tmpl.ClearCache)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequestWithContext(ctx, http.MethodPost, "/render",
		strings.NewReader(`{"template": "$for x in l: $x", "context": {"l": ["a"]}}`))

	rec := httptest.NewRecorder()
	New().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusServiceUnavailable, rec.Body)
	}
}

func TestServer_BadRequest(t *testing.T) {
	s := New(WithMaxBody(64))

	for _, body := range []string{
		`not json`,
		`{"template": "x", "context": ["a"]}`,
		`{"template": "` + strings.Repeat("x", 128) + `"}`,
	} {
		rec := post(t, s, "/render", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %.20q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestServer_Check(t *testing.T) {
	t.Cleanup(tmpl.ClearCache)

	rec := post(t, New(), "/check", `{"template": "$if a:\n$b\n$end\n"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	if got := strings.TrimSpace(rec.Body.String()); got != `{"ok":true}` {
		t.Errorf("body = %s", got)
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	t.Cleanup(tmpl.ClearCache)

	s := New()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body)
	}

	post(t, s, "/render", `{"template": "$x", "context": {"x": "1"}}`)
	post(t, s, "/render", `{"template": "$y"}`)
	post(t, s, "/render", `{"template": "$y"}`)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`dollar_renders_total{outcome="ok",route="render"} 1`,
		`dollar_renders_total{outcome="missing_variable",route="render"} 2`,
		`dollar_render_duration_seconds_count{route="render"} 3`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output lacks %s", want)
		}
	}
}

func TestServer_Profiler(t *testing.T) {
	for _, enable := range []bool{false, true} {
		rec := httptest.NewRecorder()
		New(WithProfiler(enable)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))

		if ok := rec.Code == http.StatusOK; ok != enable {
			t.Errorf("profiler %v: status %d", enable, rec.Code)
		}
	}
}

func TestServer_ListenAndServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)

	go func() { errc <- New().ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
