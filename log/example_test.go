package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/dollar/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("template rendered", slog.Int("bytes", 42))
	// Output:
	// level=INFO msg="template rendered" bytes=42
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("missing variable", slog.String("path", "user.name"))
	// Output:
	// level=WARN msg="missing variable" path=user.name
}

func Example_trace() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"))

	logger.TraceContext(context.Background(), "enter for", slog.String("var", "x"))
	// Output:
	// {"level":"TRACE","msg":"enter for","var":"x"}
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithPretty(false)).
		With(slog.String("component", "serve"))

	logger.Info("listening", slog.String("addr", ":8080"))
	// Output:
	// level=INFO msg=listening component=serve addr=:8080
}
