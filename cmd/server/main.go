package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"overspeed/internal/app"
	"overspeed/internal/config"
	"overspeed/internal/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// run returns instead of exiting so the deferred cleanup always happens.
func run() error {
	cfg := config.Load()
	l := logger.NewLogger(cfg)
	defer l.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.NewApp(cfg, l)

	if err := application.Run(ctx); err != nil {
		l.Error("Server stopped: %v", err)
		return err
	}
	return nil
}
