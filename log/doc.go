// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template rendered", slog.Int("bytes", n))
//
// The zero [Logger] discards everything, so components may hold one by value
// and log unconditionally.
//
// # Configuration
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with further options applied, and
// [Logger.With] derives one that adds attributes to every message.
//
// # Levels
//
// Besides the [log/slog] levels the package defines [LevelTrace], below
// [LevelDebug], used for per-directive tracing of the template engine.
//
// # Output Formats
//
// [FormatText] writes key=value lines and [FormatJSON] writes one JSON object
// per line. Text output written to a color terminal is colorized unless
// disabled with [WithPretty].
//
// # Package-Level Logger
//
// Functions such as [Info] and [ErrorContext] log through a package-level
// logger writing to standard error, reconfigured with [Config]. Calls that
// take no context use [DefaultContextProvider].
package log
