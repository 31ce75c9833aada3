// Package serve exposes template rendering over HTTP.
//
// Routes:
//
//	POST /render   {"template": "...", "context": {...}} → rendered text
//	POST /check    {"template": "..."}                   → {"ok": true}
//	GET  /healthz                                        → ok
//	GET  /metrics                                        → Prometheus metrics
//
// Failed renders answer 422 with a JSON body describing the error, including
// the line and column of parse errors and the path of missing variables.
package serve
