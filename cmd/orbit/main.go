package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wisbric/orbit/internal/config"
	"github.com/wisbric/orbit/internal/demo"
	"github.com/wisbric/orbit/internal/telemetry"
	"github.com/wisbric/orbit/pkg/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(cfg.Telemetry.LogFormat, cfg.Telemetry.LogLevel)
	for _, c := range telemetry.All() {
		if err := prometheus.Register(c); err != nil {
			logger.Warn("registering metric collector failed", "error", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := core.New(cfg, core.Options{Logger: logger})
	c.Start(ctx)
	defer c.Shutdown()

	if err := demo.Run(ctx, c, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}

	logger.Info("demo scenario complete")
}
