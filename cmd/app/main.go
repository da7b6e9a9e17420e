package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"ambassador_engine/internal/api"
	"ambassador_engine/internal/cache"
	"ambassador_engine/internal/middleware"
	"ambassador_engine/internal/notify"
	"ambassador_engine/internal/repository"
	"ambassador_engine/internal/reward"
	"ambassador_engine/internal/service"
	"ambassador_engine/pkg/auth"
	"ambassador_engine/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	ctx := context.Background()

	var leaderboardCache service.LeaderboardCache
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		leaderboardCache = cache.NewLeaderboardCache(client, cfg.Redis.TTL)
		zapLogger.Info("Leaderboard cache enabled")
	}

	hub := notify.NewHub()
	sinks := notify.Multi{hub}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := notify.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			zapLogger.Fatal("Failed to initialize kafka publisher", zap.Error(err))
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	if cfg.TelegramNotify.Enabled {
		telegram, err := notify.NewTelegramNotifier(cfg.TelegramNotify.BotToken)
		if err != nil {
			zapLogger.Fatal("Failed to initialize telegram notifier", zap.Error(err))
		}
		sinks = append(sinks, telegram)
	}

	notifier := notify.NewAsync(sinks, cfg.Notifications.Workers, cfg.Notifications.Buffer)
	defer notifier.Close()

	rewards := reward.NewDefaultRegistry(repo)
	zapLogger.Info("Reward handlers registered", zap.Any("types", rewards.Types()))

	referralService := service.NewReferralService(repo)
	svc := service.NewService(
		service.NewSubmissionService(repo, rewards, referralService, notifier, leaderboardCache),
		service.NewLeaderboardService(repo, leaderboardCache),
		service.NewLevelService(repo, cfg.Levels.Rules(), notifier, leaderboardCache),
		service.NewEligibilityService(repo, notifier),
		referralService,
		service.NewTaskService(repo),
		service.NewParticipantService(repo),
	)

	telegramAuth := auth.NewTelegramAuth(cfg.TelegramAuth.BotToken, cfg.TelegramAuth.DebugMode)
	authz := middleware.NewAuthorization(svc, cfg.Managers.TelegramIDs)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewSubmissionRoutes(a, svc, telegramAuth, authz)
	api.NewLeaderboardRoutes(a, svc, telegramAuth)
	api.NewParticipantRoutes(a, svc, svc, svc, telegramAuth, authz)
	api.NewTaskRoutes(a, svc, svc, telegramAuth, authz)
	api.NewWSRoutes(a, hub, telegramAuth, authz)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
