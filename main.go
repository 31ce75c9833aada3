package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/dollar/cli"
	"github.com/ardnew/dollar/log"
)

func main() {
	if err := cli.Run(context.Background(), os.Exit, os.Args[1:]...); err != nil {
		// Command errors implement slog.LogValuer and log their attributes.
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
