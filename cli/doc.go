// Package cli contains the command line interface for dollar.
//
// # Usage
//
//	dollar [flags] [template]
//	dollar render -c data.yaml -s name=Ann page.tmpl
//	dollar check *.tmpl
//	dollar tokens page.tmpl
//	dollar context -c data.yaml --paths
//	dollar repl -c data.yaml
//	dollar serve --addr=:8080
//	dollar init
//
// Render is the default command, so a bare template argument renders it.
// Templates named without a path are looked up in the directories given by
// --path and then in $DOLLAR_PATH.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (for example ~/.config/dollar/config.yaml). Keys are flag names;
// underscores may replace hyphens:
//
//	log-level: debug
//	max_depth: 50
//
// The init command writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time-layout: timestamp format (RFC3339, RFC3339Nano, Kitchen, ...)
//   - --log-caller: include caller information
//   - --log-pretty: colorize text output on a terminal
//
// At trace level the renderer logs each directive it evaluates.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: profiling mode (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default ~/.cache/dollar/pprof)
package cli
