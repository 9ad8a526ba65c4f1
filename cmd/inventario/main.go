package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mrops-br/inventario-console/internal/app/export"
	"github.com/mrops-br/inventario-console/internal/app/history"
	"github.com/mrops-br/inventario-console/internal/app/screen"
	"github.com/mrops-br/inventario-console/internal/app/settings"
	"github.com/mrops-br/inventario-console/internal/infrastructure/client"
	"github.com/mrops-br/inventario-console/internal/infrastructure/config"
	"github.com/mrops-br/inventario-console/internal/infrastructure/localstore"
	"github.com/mrops-br/inventario-console/internal/infrastructure/schedule"
	"github.com/mrops-br/inventario-console/internal/infrastructure/telemetry"
	"github.com/mrops-br/inventario-console/internal/ui/console"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "inventario: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig("inventario", false)

	if err := os.MkdirAll(cfg.Screen.StateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	// stdout belongs to the screen; logs go to a file next to the saved state.
	logFile, err := os.OpenFile(filepath.Join(cfg.Screen.StateDir, "inventario.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP, telemetry.Options{LogWriter: logFile})
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(&cfg.OTLP, logFile)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			telem.Logger.Error("Error shutting down telemetry", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer := telem.TracerProvider.Tracer("inventario")
	meter := telem.MeterProvider.Meter("inventario")
	logger := telem.Logger

	logger.Info("Starting inventario console",
		slog.String("api", cfg.Client.BaseURL),
		slog.String("state_dir", cfg.Screen.StateDir),
	)

	store := localstore.NewFileStore(cfg.Screen.StateDir, logger)

	prefs, err := settings.Load(ctx, store)
	if err != nil {
		logger.Warn("Using default theme", slog.String("error", err.Error()))
	}

	seed, err := store.LoadHistory(ctx)
	if err != nil {
		logger.Warn("Starting with an empty history", slog.String("error", err.Error()))
	}

	gateway, err := client.NewProductosClient(&cfg.Client, tracer, meter, logger)
	if err != nil {
		return err
	}

	ctrl := screen.NewController(screen.Dependencies{
		Gateway:      gateway,
		History:      history.NewLog(seed, nil),
		HistoryStore: store,
		Settings:     prefs,
		Saver:        export.DirSaver{Dir: cfg.Screen.ExportDir},
		Scheduler:    schedule.New(),
		Tracer:       tracer,
		Meter:        meter,
		Logger:       logger,
	}, screen.Options{
		PageSize:       cfg.Screen.PageSize,
		SearchDebounce: cfg.Screen.SearchDebounce,
		ToastTTL:       cfg.Screen.ToastTTL,
	})
	defer ctrl.Close()

	// A failed first load is already shown on screen as a toast.
	_ = ctrl.Activate(telemetry.WithOperation(ctx, "activate"))

	colors := isatty.IsTerminal(os.Stdout.Fd())
	ui := console.New(ctrl, console.NewSurveyDriver(os.Stdout), os.Stdout, colors, logger)

	if err := ui.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("Inventario console stopped")
	return nil
}
