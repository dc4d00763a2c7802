package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/erfrost/playreal-backend/internal/api"
	"github.com/erfrost/playreal-backend/internal/auth"
	"github.com/erfrost/playreal-backend/internal/catalog"
	"github.com/erfrost/playreal-backend/internal/chat"
	"github.com/erfrost/playreal-backend/internal/config"
	"github.com/erfrost/playreal-backend/internal/database"
	"github.com/erfrost/playreal-backend/internal/events"
	"github.com/erfrost/playreal-backend/internal/logger"
	"github.com/erfrost/playreal-backend/internal/media"
	"github.com/erfrost/playreal-backend/internal/metrics"
	"github.com/erfrost/playreal-backend/internal/offers"
	"github.com/erfrost/playreal-backend/internal/payments"
	"github.com/erfrost/playreal-backend/internal/repository"
	"github.com/erfrost/playreal-backend/internal/support"
	"github.com/erfrost/playreal-backend/internal/users"
	"github.com/erfrost/playreal-backend/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.App.Env != "production")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zlog.Sync()

	metrics.Init()

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, zlog)
	if err != nil {
		zlog.Fatalw("mongo connect failed", "err", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, zlog)
	if err != nil {
		zlog.Warnw("redis unavailable, presence cache and rate limiting degraded", "err", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	supportRepo := repository.NewSupportRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicMessageSent, zlog)
	defer producer.Close()

	var presenceCache *chat.PresenceCache
	if rdb != nil {
		presenceCache = chat.NewPresenceCache(rdb, cfg.Redis.Prefix)
	}

	chatReg := ws.NewRegistry()
	supportReg := ws.NewRegistry()

	presence := chat.NewPresenceService(userRepo, convRepo, chatReg, presenceCache, zlog)
	chatSvc := chat.NewService(convRepo, msgRepo, userRepo, chatReg, producer, zlog)
	chatGW := chat.NewGateway(chatReg, presence, chatSvc, cfg.PingInterval, cfg.WriteDeadline, cfg.WS.MaxMessageSizeBytes, zlog)

	supportSvc := support.NewService(supportRepo, userRepo, supportReg, cfg.Support.OperatorEmail, zlog)
	supportGW := support.NewGateway(supportReg, supportSvc, cfg.PingInterval, cfg.WriteDeadline, cfg.WS.MaxMessageSizeBytes, zlog)

	tokenManager := auth.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.AccessTTL)
	authSvc := auth.NewService(userRepo, tokenRepo, tokenManager, zlog)
	userSvc := users.NewService(userRepo, catalogRepo, zlog)
	catalogSvc := catalog.NewService(catalogRepo)
	offerSvc := offers.NewService(offerRepo, convRepo, userRepo, catalogRepo, zlog)
	paymentSvc := payments.NewService(paymentRepo, catalogSvc, zlog)

	var mediaSvc *media.Service
	if cfg.S3.Bucket != "" {
		store, err := media.NewS3Store(context.Background(), cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Endpoint, cfg.S3.PublicRead)
		if err != nil {
			zlog.Fatalw("s3 init failed", "err", err)
		}
		mediaSvc = media.NewService(store, 15*time.Minute, zlog)
	}

	var limiter *api.RateLimiter
	if rdb != nil {
		limiter = api.NewRateLimiter(rdb, cfg.Redis.Prefix, cfg.RateLimit.Requests, cfg.RateLimitWindow, zlog)
	}

	srv := api.NewServer(api.Deps{
		Auth:           authSvc,
		Users:          userSvc,
		Chat:           chatSvc,
		Presence:       presence,
		Support:        supportSvc,
		Catalog:        catalogSvc,
		Offers:         offerSvc,
		Payments:       paymentSvc,
		Media:          mediaSvc,
		ChatGateway:    chatGW,
		SupportGateway: supportGW,
		RateLimiter:    limiter,
		Log:            zlog,
	})

	go func() {
		if err := srv.Listen(":" + cfg.App.Port); err != nil {
			zlog.Fatalw("server listen failed", "err", err)
		}
	}()
	zlog.Infow("server started", "port", cfg.App.Port, "env", cfg.App.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Warnw("shutdown incomplete", "err", err)
	}
	zlog.Infow("server stopped")
}
