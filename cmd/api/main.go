package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quickfixhub/auth"
	"quickfixhub/config"
	"quickfixhub/db"
	"quickfixhub/httpapi"
	"quickfixhub/notify"
	"quickfixhub/offer"
	"quickfixhub/provider"
	"quickfixhub/request"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap database pool")
	}
	defer pool.Close()

	notifier := notify.NewWebhook(cfg.NotifyWebhookURL, log)

	providerRepo := provider.NewRepository(pool)
	requestRepo := request.NewRepository(pool)
	offerRepo := offer.NewRepository(pool)

	authService := auth.NewService(auth.NewRepository(pool), providerRepo, cfg.JWTSecret)
	ranker := provider.NewRanker(providerRepo)
	requestService := request.NewService(pool, requestRepo, offerRepo, ranker).
		WithNotifier(notifier)

	scheduler := cron.New()
	sweepSpec := fmt.Sprintf("@every %s", cfg.SweepInterval)
	if _, err := scheduler.AddFunc(sweepSpec, func() {
		swept, err := requestService.Sweep(context.Background(), time.Now().UTC())
		if err != nil {
			log.Error().Err(err).Msg("sweep pass failed")
		}
		if swept > 0 {
			log.Info().Int("requests", swept).Msg("sweep advanced expired offer rounds")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", sweepSpec).Msg("schedule sweeper")
	}
	scheduler.Start()
	defer scheduler.Stop()

	e := echo.New()
	e.HideBanner = true
	server := httpapi.NewServer(authService, requestService, providerRepo, notifier, pool, log)
	server.Register(e, cfg.CORSOrigins)

	log.Info().Str("port", cfg.Port).Dur("sweep_interval", cfg.SweepInterval).Msg("quickfixhub api listening")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
