package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/thorn-jmh/buildergen/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("buildergen failed", "err", err)
		stop()
		os.Exit(1)
	}
}
