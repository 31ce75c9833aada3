// Package profile wraps [github.com/pkg/profile] to capture runtime profiles
// of the dollar command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	dollar --pprof-mode=cpu render -c data.yaml page.tmpl
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
//
// Profiles are written to the directory set with [WithPath], by default a
// "pprof" directory under the user cache directory, and are read with
//
//	go tool pprof -http=: cpu.pprof
package profile
