package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/handiism/bandcamp-explorer/internal/api"
	"github.com/handiism/bandcamp-explorer/internal/config"
	"github.com/handiism/bandcamp-explorer/internal/explorer"
	"github.com/handiism/bandcamp-explorer/internal/logger"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	listenFlag := flag.String("listen", "", "Listen address (overrides config)")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		logger.Default().Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if *listenFlag != "" {
		settings.Listen = *listenFlag
	}

	appLogger := logger.New(settings.ToLoggerConfig())

	exp, err := explorer.New(settings, appLogger)
	if err != nil {
		appLogger.Error("Configuration error", "error", err)
		os.Exit(1)
	}
	defer exp.Close()

	// Tasks outlive requests but stop with the server.
	base, stopTasks := context.WithCancel(context.Background())
	defer stopTasks()

	h := api.NewHandler(base, exp, appLogger)
	h.DefaultSort = settings.Sort()

	srv := &http.Server{
		Addr:              settings.Listen,
		Handler:           api.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	stopTasks()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
