package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"live-translation-relay/internal/config"
	"live-translation-relay/internal/events"
	"live-translation-relay/internal/gateway"
	"live-translation-relay/internal/observability"
	"live-translation-relay/internal/observability/logging"
	"live-translation-relay/internal/pipeline"
	"live-translation-relay/internal/session"
	"live-translation-relay/internal/translate"
)

func main() {
	cfg := config.Load()

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	// Kafka publisher with separate topics for partial and final transcripts
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicPartial: cfg.Kafka.TopicPartial,
		TopicFinal:   cfg.Kafka.TopicFinal,
		Principal:    cfg.Service.Principal,
	})
	defer publisher.Close()

	ctx := context.Background()
	translator := translate.New(ctx, cfg)
	registry := session.NewRegistry()
	queue := pipeline.NewQueue()

	gw := gateway.New(cfg, registry, translator, publisher, queue,
		gateway.DefaultRecognizerFactory(cfg))

	obsServer := observability.NewServer(cfg.Service.MetricsAddr)
	obsServer.Start()

	server := &http.Server{
		Addr:        ":" + cfg.Service.Port,
		Handler:     gw.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Service.Port).Msg("Live translation relay started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	if err := obsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown error")
	}
}
