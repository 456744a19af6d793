package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aashari/go-eduverse-backend/internal/app"
	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/logger"
)

func main() {
	printExample := flag.Bool("config-example", false, "print an example config.yaml and exit")
	flag.Parse()
	if *printExample {
		fmt.Print(config.GetConfigExample())
		return
	}

	// Load .env before anything reads the environment
	envFile, envErr := config.LoadEnvFromMultiplePaths()

	// Initialize structured logging
	if err := logger.InitFromEnv(); err != nil {
		// Can't use logger here as it failed to initialize
		_, _ = os.Stderr.WriteString("FATAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx := logger.WithComponent(context.Background(), logger.ComponentNames.Config)
	if envErr != nil {
		logger.Warn(ctx, "Failed to load .env file", "error", envErr.Error())
	} else if envFile != "" {
		logger.Info(ctx, "Loaded environment file", "path", envFile)
	}

	if err := run(); err != nil {
		logger.Error(context.Background(), "Server failed", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := logger.WithComponent(context.Background(), logger.ComponentNames.Server)

	loader := config.NewLoader()
	cfg, err := loader.LoadConfig()
	if err != nil {
		return err
	}

	// Re-initialize with the merged configuration; service and environment stay as loaded from env
	if err := logger.Init(logger.Config{
		Level:       logger.ParseLevel(cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		ServiceName: logger.ServiceName,
		Environment: logger.Environment,
	}); err != nil {
		return err
	}

	if file := loader.ConfigFileUsed(); file != "" {
		logger.Info(ctx, "Loaded configuration file", "path", file)
	} else {
		logger.Info(ctx, "No configuration file found, using environment and defaults")
	}

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      application.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server starting", "address", addr)
		logger.Info(ctx, "Swagger documentation available", "url", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case sig := <-stop:
		logger.Info(logger.WithStage(ctx, logger.LogStages.Shutdown), "Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Graceful shutdown failed", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		return err
	}

	logger.Info(logger.WithStage(ctx, logger.LogStages.Shutdown), "Server stopped")
	return nil
}
