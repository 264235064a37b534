package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	logger := app.Logger

	// Hub main loop owns the local client set and fanout delivery.
	go app.Hub.Run()

	r := mux.NewRouter()
	r.HandleFunc("/ws", app.WsHandler.HandleConnection).Methods("GET")
	r.HandleFunc("/healthz", app.Health.Handle).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	srv := &http.Server{
		Addr:    ":" + app.Config.Port,
		Handler: r,
		// No read/write timeouts: they would tear down long-lived
		// websocket connections.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", app.Config.Port).Msg("starting chat server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
