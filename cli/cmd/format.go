package cmd

import (
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/dollar/pkg"
)

// Output formats of the structured dump commands.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// encode writes v to w in the named format.
func encode(w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case formatJSON:
		data, err = yaml.MarshalWithOptions(v, yaml.JSON())
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case formatYAML:
		data, err = yaml.MarshalWithOptions(v, yaml.CustomMarshaler(quoteBreaks))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q", format)
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// quoteBreaks writes strings holding a line break as double-quoted scalars.
// A literal block cannot hold a string made only of line breaks.
func quoteBreaks(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return []byte(strconv.Quote(s)), nil
	}

	return yaml.Marshal(s)
}
