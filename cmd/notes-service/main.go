package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"notehub/internal/biz"
	"notehub/internal/data"
	"notehub/internal/infra/kafka"
	"notehub/internal/server"
	"notehub/pkg/auth"
	"notehub/pkg/cache"
	"notehub/pkg/config"
	"notehub/pkg/database"
)

func main() {
	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "./configs/notes-service.yaml"))
	if err != nil {
		stdlog.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.SecretKey == "" {
		stdlog.Fatal("AUTH_SECRET_KEY must be set")
	}

	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"service", "notes-service",
	)
	logHelper := log.NewHelper(logger)

	db, err := data.NewDB(&database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}, logger)
	if err != nil {
		logHelper.Fatalf("failed to initialize database: %v", err)
	}

	redisClient, err := cache.NewClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logHelper.Fatalf("failed to initialize redis: %v", err)
	}
	defer redisClient.Close()

	var publisher biz.EventPublisher = biz.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewEventProducer(&kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			Topic:      cfg.Kafka.Topic,
			MaxRetries: 3,
			Timeout:    10 * time.Second,
		})
		if err != nil {
			logHelper.Fatalf("failed to initialize kafka producer: %v", err)
		}
		defer producer.Close()
		publisher = producer
	}

	noteRepo := data.NewNoteRepository(db)
	userRepo := data.NewUserRepository(db)
	collabRepo := data.NewCollaborationRepository(db)
	tokenRepo := data.NewTokenRepository(db)
	noteCache := data.NewNoteListCache(redisClient, logger)

	jwtManager := auth.NewJWTManager(cfg.Auth.SecretKey, cfg.Auth.AccessExpiry, cfg.Auth.RefreshExpiry)

	collabUC := biz.NewCollaborationUsecase(collabRepo, noteCache, publisher, logger)
	noteUC := biz.NewNoteUsecase(noteRepo, collabRepo, collabUC, noteCache, publisher, logger)
	userUC := biz.NewUserUsecase(userRepo, logger)
	authUC := biz.NewAuthUsecase(userUC, tokenRepo, jwtManager, logger)

	srv := server.NewHTTPServer(noteUC, collabUC, userUC, authUC, jwtManager, cfg.Server.RequestTimeout, logger)

	go func() {
		logHelper.Infof("starting notes-service on %s", cfg.Server.Addr)
		if err := srv.Start(cfg.Server.Addr); err != nil {
			logHelper.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logHelper.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logHelper.Errorf("server forced to shutdown: %v", err)
	}

	logHelper.Info("server exited")
}
