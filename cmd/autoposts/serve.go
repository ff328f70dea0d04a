package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"autoposts/internal/config"
	"autoposts/internal/logging"
	"autoposts/internal/relay"
	"autoposts/internal/telegram"
)

var portFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot as an HTTP server with an in-process cron scheduler",
	Run:   runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) {
	godotenv.Load()
	logging.Init()

	cfg, err := config.Load(config.Env{})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if portFlag > 0 {
		cfg.Port = portFlag
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire application")
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CronSchedule, func() { a.scheduledRun() }); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.CronSchedule).Msg("Invalid cron schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	mux := http.NewServeMux()
	mux.Handle("/image/", relay.NewHandler(a.store))
	mux.HandleFunc("/run", a.handleRun)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", handleIndex)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      withLogging(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	logging.NewStartupLogger("autoposts").
		Feature("facebook", cfg.FacebookEnabled()).
		Feature("instagram", cfg.InstagramEnabled()).
		Feature("telegram", cfg.TelegramEnabled()).
		Config("model", cfg.GeminiModel).
		Config("storage", cfg.StorageBackend).
		Config("schedule", cfg.CronSchedule).
		Config("port", strconv.Itoa(cfg.Port)).
		Log()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "AutoPosts worker. Use /run with CRON_SECRET or wait for cron.")
}

// handleRun triggers one publish run on demand. The caller must present
// the shared secret; responses always carry a JSON body once the guard
// passes.
func (a *app) handleRun(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Panic during manual run")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}()

	// An unconfigured secret leaves the trigger open; documented risk.
	if a.cfg.CronSecret != "" && r.URL.Query().Get("secret") != a.cfg.CronSecret {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	out := a.runAndNotify(r.Context())
	if out.Success {
		respondJSON(w, http.StatusOK, map[string]any{"ok": true, "topic": out.Topic})
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": out.ErrorDetail()})
}

// scheduledRun is the cron entry point. A panicking run must not take the
// scheduler down, so it recovers, notifies, and returns.
func (a *app) scheduledRun() {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("Panic during scheduled run")
			a.notifier.Notify(context.Background(),
				"❌ Error en el Bot de AutoPosts: "+telegram.EscapeHTML(fmt.Sprint(rec)))
		}
	}()

	log.Info().Msg("Cron trigger fired")
	a.runAndNotify(context.Background())
}

func respondJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// --- Middleware ---

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
