package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/guuleed/prison-records/internal/config"
	"github.com/guuleed/prison-records/internal/database"
	"github.com/guuleed/prison-records/internal/handler"
	"github.com/guuleed/prison-records/internal/metrics"
	"github.com/guuleed/prison-records/internal/middleware"
	"github.com/guuleed/prison-records/internal/queue"
	"github.com/guuleed/prison-records/internal/repository"
	"github.com/guuleed/prison-records/internal/router"
	queue_publisher "github.com/guuleed/prison-records/internal/service"
)

const heartbeatInterval = 60 * time.Second

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()
	log := config.NewLogger(cfg.Env)
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unreachable, cache and rate limit disabled")
	}

	// repositories
	seqRepo := repository.NewSequenceRepo(db)
	detaineeRepo := repository.NewDetaineeRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	prisonRepo := repository.NewPrisonRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	m := metrics.New()
	publisher := queue_publisher.NewPublisher(log)

	// handlers
	authH := handler.NewAuthHandler(cfg, userRepo, seqRepo, tokenRepo)
	detaineeH := handler.NewDetaineeHandler(detaineeRepo, seqRepo, publisher, m, log)
	roomH := handler.NewRoomHandler(roomRepo, detaineeRepo, seqRepo)
	prisonH := handler.NewPrisonHandler(prisonRepo, detaineeRepo, seqRepo)
	userH := handler.NewUserHandler(cfg, userRepo, seqRepo)
	dashH := handler.NewDashboardHandler(dashRepo)
	exportH := handler.NewExportHandler(detaineeRepo, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, detaineeH, roomH, prisonH, cache)
	router.RegisterProtected(e, cfg.JWTSecret, detaineeH, roomH, prisonH, userH, dashH, exportH)

	// background workers
	go queue.StartDetaineeConsumer(log)
	go heartbeat(publisher, log)

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// heartbeat emits a liveness tick on the broker once a minute,
// fire-and-forget.
func heartbeat(p *queue_publisher.Publisher, log *zap.Logger) {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.PublishHeartbeat(ctx); err != nil {
			log.Debug("heartbeat publish failed", zap.Error(err))
		}
		cancel()
	}
}
