package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MiguesFerreira/NexusDev/internal/bot"
	"github.com/MiguesFerreira/NexusDev/internal/catalog"
	"github.com/MiguesFerreira/NexusDev/internal/chat"
	"github.com/MiguesFerreira/NexusDev/internal/config"
	"github.com/MiguesFerreira/NexusDev/internal/consent"
	"github.com/MiguesFerreira/NexusDev/internal/store"
	"github.com/MiguesFerreira/NexusDev/internal/web"
	"github.com/MiguesFerreira/NexusDev/internal/whatsapp"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "nexusia.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("store")
	}
	defer db.Close()

	cat := catalog.Default()

	var sched chat.Scheduler = chat.InlineScheduler{}
	timers := chat.NewTimerScheduler()
	if cfg.ChatPacing {
		sched = timers
	}

	api := web.NewServer(web.Options{
		Catalog:   cat,
		Consent:   consent.NewService(db),
		Scheduler: sched,
		Number:    cfg.HandoffNumber,
	})

	var botHandler *bot.Handler
	if cfg.WhatsAppEnabled() {
		waClient := whatsapp.NewClient(cfg.WAPhoneNumberID, cfg.WAAccessToken)
		botHandler = bot.NewHandler(waClient, cat, sched, cfg.HandoffNumber)
	}

	// Periodic cleanup of idle sessions to prevent memory leaks
	go func() {
		ticker := time.NewTicker(cfg.SessionMaxIdle / 2)
		defer ticker.Stop()
		for range ticker.C {
			n := api.Cleanup(cfg.SessionMaxIdle)
			if botHandler != nil {
				n += botHandler.Cleanup(cfg.SessionMaxIdle)
			}
			if n > 0 {
				log.Info().Int("sessions", n).Msg("nexusia: idle sessions evicted")
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(web.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Mount("/api", api.Routes())

	if botHandler != nil {
		webhookHandler := whatsapp.NewWebhookHandler(cfg.WAVerifyToken, botHandler.HandleMessage)
		r.Get("/webhook", webhookHandler.HandleVerify)
		r.Post("/webhook", webhookHandler.HandleIncoming)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Bool("pacing", cfg.ChatPacing).Bool("whatsapp", botHandler != nil).
			Msg("nexusia: listening")
		if botHandler != nil {
			log.Info().Str("verify_token", cfg.WAVerifyToken).Msg("nexusia: webhook enabled")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("nexusia: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	timers.Stop()
	log.Info().Msg("nexusia: stopped")
}
