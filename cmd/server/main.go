package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"skatepark/internal/auth"
	"skatepark/internal/config"
	"skatepark/internal/database"
	"skatepark/internal/mail"
	"skatepark/internal/platform/ratelimit"
	"skatepark/internal/platform/skater"
	"skatepark/internal/platform/storage"
	"skatepark/internal/router"
	"skatepark/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if cfg.EphemeralSecret {
		log.Warn().Msg("SKATEPARK_JWT_SECRET is not set, using a random secret; tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	mediaStore, err := cfg.MediaStorage()
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.MediaBackend).Msg("failed to open media store")
	}
	defer mediaStore.Close()

	mailer := mail.New(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunAPIBase)

	skaters := skater.NewService(
		skater.NewRepository(db),
		storage.NewStorageService(mediaStore, cfg.MaxImageDimension, cfg.MaxImagePixels),
		skater.WithMailer(mailer, cfg.MailFrom),
		skater.WithMaxUploadSize(cfg.MaxUploadSize),
		skater.WithLogger(log),
	)

	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		store, err := ratelimit.NewRedisStorage(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer store.Close()
		limiterStorage = store
	}

	app := router.New(router.Dependencies{
		Config:         cfg,
		Skaters:        skaters,
		Tokens:         auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Log:            log,
		LimiterStorage: limiterStorage,
		Ready: func(ctx context.Context) bool {
			return database.Ping(ctx, db)
		},
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Info().Str("addr", addr).Str("media_backend", cfg.MediaBackend).Msg("server listening")

	if err := app.Listen(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
}
