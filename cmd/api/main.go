package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "findmystuff/cmd/api/router/v1"
	"findmystuff/internal/infrastructure/auth"
	"findmystuff/internal/infrastructure/cache"
	cacheAdapter "findmystuff/internal/infrastructure/cache/adapter"
	"findmystuff/internal/infrastructure/config"
	"findmystuff/internal/infrastructure/database"
	queueAdapter "findmystuff/internal/infrastructure/queue/adapter"
	qport "findmystuff/internal/infrastructure/queue/port"
	"findmystuff/internal/infrastructure/realtime"
	storageAdapter "findmystuff/internal/infrastructure/storage/adapter"
	storage "findmystuff/internal/infrastructure/storage/port"
	"findmystuff/internal/pkg/account/application/task"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = store.Close(shutdownCtx)
	}()

	verifier := auth.NewVerifier(cfg.JWTSecret, cfg.TokenTTL)

	rt := realtime.NewRouter()
	defer rt.Close()

	r := gin.Default()

	// Redis is optional: without it the API runs unlimited and verification
	// codes are returned in the register response (demo mode).
	var queueClient qport.Client
	if cfg.RedisURL != "" {
		redisCache, err := cacheAdapter.NewRedisAdapter(cfg.RedisURL)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer redisCache.Close()
		r.Use(cache.RateLimit(redisCache, cfg.RateLimitWindow, cfg.RateLimitMax, logger))

		client, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("connect queue", zap.Error(err))
		}
		defer client.Close()
		queueClient = client

		worker, err := queueAdapter.NewAsynqServer(cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal("start worker", zap.Error(err))
		}
		task.RegisterSendVerificationTask(worker, &task.LogSender{Logger: logger})
		go func() {
			if err := worker.Run(ctx); err != nil {
				logger.Error("worker stopped", zap.Error(err))
			}
		}()
	}

	demo := !cfg.SendRealVerification

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, store, rt, verifier, queueClient, demo, logger)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// openStore selects the persistence backend from configuration. Everything
// above the storage port is oblivious to the choice.
func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.ConnectMongo(connectCtx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return storageAdapter.NewMongoStore(client, cfg.MongoDB)
	case config.DriverPostgres:
		pool, err := database.ConnectPostgres(connectCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return storageAdapter.NewPgStore(connectCtx, pool)
	default:
		return storageAdapter.NewFileStore(cfg.DBPath)
	}
}
