package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mAXxtor/api-yamdb/internal/api"
	"github.com/mAXxtor/api-yamdb/internal/core/ports"
	mongodb "github.com/mAXxtor/api-yamdb/internal/infrastructure/db/mongo"
	redisdb "github.com/mAXxtor/api-yamdb/internal/infrastructure/db/redis"
	"github.com/mAXxtor/api-yamdb/internal/infrastructure/mail"
	"github.com/mAXxtor/api-yamdb/internal/infrastructure/queue"
	"github.com/mAXxtor/api-yamdb/internal/pkg/config"
	"github.com/mAXxtor/api-yamdb/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect error")
		}
	}()

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, signup throttling disabled")
		rdb = nil
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close error")
			}
		}()
	}

	var sender ports.CodeSender
	if cfg.SMTP.Host != "" {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
	} else {
		log.Warn().Msg("SMTP_HOST not set, confirmation codes will be logged")
		sender = mail.NewLogSender(log)
	}

	dispatcher := queue.NewDispatcher(0, mongodb.NewActivityRepository(db), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.RouterConfig{
		DB:           db,
		Redis:        rdb,
		JWTSecret:    cfg.Auth.JWTSecret,
		CodeSecret:   cfg.Auth.CodeSecret,
		TokenTTL:     cfg.Auth.TokenTTL,
		Sender:       sender,
		Activity:     dispatcher,
		Log:          log,
		SignupLimit:  cfg.Throttle.SignupLimit,
		SignupWindow: cfg.Throttle.SignupWindow,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server exited cleanly")
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexed := []interface {
		EnsureIndexes(ctx context.Context) error
	}{
		mongodb.NewAccountRepository(db),
		mongodb.NewCategoryRepository(db),
		mongodb.NewGenreRepository(db),
		mongodb.NewTitleRepository(db),
		mongodb.NewReviewRepository(db),
		mongodb.NewCommentRepository(db),
	}
	for _, repo := range indexed {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
