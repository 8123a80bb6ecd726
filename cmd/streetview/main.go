package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/streetview-node/internal/app"
	"github.com/samvad-hq/streetview-node/internal/config"
	"github.com/samvad-hq/streetview-node/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "streetview failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("streetview node starting", "config", map[string]any{
		"app_env":        cfg.Env,
		"base_url":       cfg.StreetViewBaseURL,
		"timeout":        cfg.RequestTimeout.String(),
		"artifact_store": cfg.ArtifactStore,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	newNode := func(ctx context.Context) (runner, error) {
		node, err := app.NewNode(ctx, cfg, log)
		if err != nil {
			logger.ErrorObj("failed to initialize node", "error", err.Error())
			return nil, err
		}
		return node, nil
	}

	return newRootCmd(newNode).ExecuteContext(ctx)
}
