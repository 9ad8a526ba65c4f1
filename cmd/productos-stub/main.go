package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/inventario-console/internal/infrastructure/config"
	"github.com/mrops-br/inventario-console/internal/infrastructure/http"
	"github.com/mrops-br/inventario-console/internal/infrastructure/telemetry"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig("productos-stub", true)

	// Initialize OpenTelemetry
	telem, err := telemetry.NewTelemetry(&cfg.OTLP, telemetry.Options{Prometheus: true})
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger := telem.Logger
	logger.Info("Starting productos stub API")

	server, err := http.NewStubServer(ctx, &cfg.Server, telem)
	if err != nil {
		logger.Error("Failed to build server", "error", err.Error())
		return
	}

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", "error", err.Error())
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err.Error())
	}

	logger.Info("Server stopped")
}
