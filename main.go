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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"linguakit/core"
	"linguakit/factories"
	"linguakit/gateway"
)

func main() {
	var listenAddr string
	var settingsPath string
	flag.StringVar(&listenAddr, "listen", getEnv("LISTEN_ADDR", ":8080"), "HTTP listen address")
	flag.StringVar(&settingsPath, "settings", getEnv("SETTINGS_PATH", ""), "path to settings.json (optional)")
	flag.Parse()

	if err := godotenv.Load(".env.local"); err != nil {
		core.GetLogger().With(map[string]any{"error": err}).Warn("No .env.local file found or failed to load")
	}
	logger := core.GetLogger()

	settings, err := factories.LoadSettings(settingsPath)
	if err != nil {
		logger.With(map[string]any{"error": err}).Warn("failed to load settings, using defaults")
	}

	collaborators, err := factories.BuildCollaborators(settings, logger)
	if err != nil {
		logger.With(map[string]any{"error": err}).Fatal("failed to build collaborator services")
	}

	gw := gateway.New(collaborators, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", gw.Healthz)
	r.Get("/api/languages", gw.Languages)
	r.Get("/api/scenarios", gw.Scenarios)
	r.Get("/ws", gw.ServeWS)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: r,
	}

	go func() {
		logger.With(map[string]any{"addr": listenAddr}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.With(map[string]any{"error": err}).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.With(map[string]any{"error": err}).Error("shutdown failed")
	}
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
