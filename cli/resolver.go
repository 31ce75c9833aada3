package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/dollar/log"
	"github.com/ardnew/dollar/pkg"
)

// resolve is a [kong.ConfigurationLoader] for the YAML configuration file
// written by the init command:
//
//	log-level: debug
//	log-format: json
//	max-depth: 50
//	path:
//	  - ~/templates
//
// Keys are flag names. Underscores may stand in for hyphens, so log_level
// and log-level are the same key. Command-line flags override file values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pkg.ErrConfig.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pkg.ErrConfig.Wrap(err)
	}

	conf := make(config, len(doc))
	for k, v := range doc {
		conf[strings.ReplaceAll(k, "_", "-")] = flagValue(v)
	}

	log.Debug("configuration loaded", slog.Any("config", conf))

	return conf, nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}

// LogValue implements slog.LogValuer.
func (c config) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(c))
	for k, v := range c {
		attrs = append(attrs, slog.Any(k, v))
	}

	return slog.GroupValue(attrs...)
}

// flagValue converts a decoded YAML value into a form kong can assign to a
// flag. Kong parses numbers from strings, so every number becomes one.
func flagValue(v any) any {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = flagValue(e)
		}

		return out
	default:
		return v
	}
}
