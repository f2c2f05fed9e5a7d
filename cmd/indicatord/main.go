// Command indicatord serves the indicator pipeline over HTTP: dataset
// reload, the canonical/aggregate/forecast table contracts, KPI summaries,
// health and prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"indicli/internal/config"
	"indicli/internal/infrastructure"
	"indicli/internal/services"
	transport "indicli/internal/transport/http"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: INDICLI_CONFIG or ./config.yaml)")
	dataPath := flag.String("data", "", "wide-format input file to load at startup (optional)")
	flag.Parse()

	if err := run(*configPath, *dataPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, dataPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	metrics := infrastructure.NewMetrics(prometheus.DefaultRegisterer)
	service := services.NewIndicatorService(cfg, logger, metrics)

	if dataPath != "" {
		report, err := service.LoadFromFile(context.Background(), dataPath)
		if err != nil {
			return fmt.Errorf("initial load: %w", err)
		}
		logger.Info("initial dataset loaded",
			slog.String("source", dataPath),
			slog.String("summary", report.Summary()))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      transport.NewRouter(cfg, service, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
