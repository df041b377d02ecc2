package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/authrelay/authrelay/internal/api"
	"github.com/authrelay/authrelay/internal/config"
	"github.com/authrelay/authrelay/internal/oauth"
	"github.com/authrelay/authrelay/internal/session"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading configuration")
	}

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Missing credentials are not fatal: health stays up and the start
	// endpoint reports the configuration error per request.
	var provider oauth.Provider
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		provider = oauth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.RedirectURL)
	} else {
		log.Warn().Msg("google oauth credentials not configured; login cannot start")
	}

	store := session.New(cfg.SessionTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx, cfg.SweepInterval)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger(log.Logger))
	router.Use(api.CORS(cfg.AllowedOrigins))
	api.RegisterRoutes(router, api.NewHandler(provider, store))

	log.Info().Str("port", cfg.Port).Msg("server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
