package cmd

import (
	"context"

	"github.com/ardnew/dollar/cli/cmd/serve"
	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/profile"
	"github.com/ardnew/dollar/tmpl"
)

// Serve renders templates submitted over HTTP.
type Serve struct {
	Addr      string `default:":8080" help:"Listen address"`
	MaxDepth  int    `default:"100" help:"Maximum block nesting depth"`
	MaxBody   int64  `default:"4194304" help:"Maximum request body size in bytes"`
	MaxOutput int64  `default:"16777216" help:"Maximum rendered output size in bytes"`
	Profiler  bool   `help:"Serve net/http/pprof under /debug (pprof builds only)"`
}

// Run executes the serve command until ctx is done.
func (s *Serve) Run(ctx context.Context) error {
	srv := serve.New(
		serve.WithLogger(log.Default()),
		serve.WithMaxBody(s.MaxBody),
		serve.WithMaxOutput(s.MaxOutput),
		serve.WithProfiler(s.Profiler && profile.Enabled),
		serve.WithTemplateOptions(tmpl.WithMaxDepth(s.MaxDepth)),
	)

	return srv.ListenAndServe(ctx, s.Addr)
}
