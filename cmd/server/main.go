package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gostat/internal/config"
	"gostat/internal/container"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		log.Fatal("Failed to build container:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Serve(ctx); err != nil {
		log.Fatal("Server failed:", err)
	}
}
