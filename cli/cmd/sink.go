package cmd

import (
	"context"
	"io"
)

// sink is a writer that stops accepting output once its context is done,
// which aborts a render in progress with the context's cause.
type sink struct {
	ctx context.Context
	w   io.Writer
}

func (s sink) Write(p []byte) (int, error) {
	if err := context.Cause(s.ctx); err != nil {
		return 0, ErrCanceled.Wrap(err)
	}

	return s.w.Write(p)
}
