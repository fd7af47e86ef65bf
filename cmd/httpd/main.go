package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/preventia/risk-api/internal/bootstrap"
	"github.com/preventia/risk-api/internal/logging"
)

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting risk API server",
		logging.Int("port", cfg.Service.Port),
		logging.Bool("debug", cfg.Service.Debug),
	)

	components, err := bootstrap.NewHTTPComponents(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build components", logging.Error(err))
	}
	if components.DB != nil {
		defer func() { _ = components.DB.Close() }()
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- components.Server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Fatal("server error", logging.Error(err))
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), bootstrap.HTTPShutdownTimeout())
		defer cancel()

		if err := components.Server.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", logging.Error(err))
			os.Exit(1)
		}

		logger.Info("server stopped gracefully")
	}
}
