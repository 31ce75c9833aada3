package cmd

import (
	"context"
	"testing"
)

func TestServeRunStopsWithContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := Serve{Addr: "127.0.0.1:0", MaxDepth: 100, MaxBody: 1 << 10, MaxOutput: 1 << 20}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil after cancel", err)
	}
}
