/*
Package main is the entry point for the TalentX messaging server.

It loads configuration, initializes the global logger, opens the message store,
starts the realtime gateway and the HTTP server, and shuts everything down
gracefully on SIGINT/SIGTERM.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"talentx/internal/app/db"
	"talentx/internal/app/message"
	"talentx/internal/app/metrics"
	"talentx/internal/app/realtime"
	"talentx/internal/configs"
	"talentx/internal/handler"
	"talentx/internal/pkg/limiter"
	"talentx/internal/pkg/logx"
)

func main() {
	// Load configuration from .env and environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment())
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("store_driver", cfg.StoreDriver).
		Bool("redis_limiter", cfg.RedisAddr != "").
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to open message store")
	}
	defer closeStore()

	sendLimiter, closeLimiter, err := openSendLimiter(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to set up send limiter")
	}
	defer closeLimiter()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	service := message.NewService(store)

	gateway := realtime.NewGateway(realtime.NewRegistry(), service, realtime.Options{
		JWTSecret:      cfg.JWTSecret,
		Limiter:        sendLimiter,
		Metrics:        m,
		MessageTimeout: cfg.MessageTimeout,
	})

	loginLimiter := handler.NewLoginLimiter()
	defer loginLimiter.Stop()
	connectLimiter := handler.NewConnectLimiter()
	defer connectLimiter.Stop()

	router := handler.Router(&handler.AppDeps{
		Config:         cfg,
		Store:          store,
		Messages:       service,
		Gateway:        gateway,
		LoginLimiter:   loginLimiter,
		ConnectLimiter: connectLimiter,
		Metrics:        m,
		Gatherer:       reg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("TalentX messaging server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	gateway.Shutdown()

	logx.Info("Server gracefully stopped.")
}

// openStore returns the configured message store and a function releasing it.
func openStore(ctx context.Context, cfg *configs.AppConfig) (message.Store, func(), error) {
	if cfg.StoreDriver == configs.StoreDriverMemory {
		logx.Warn("Using the in-memory message store; messages are lost on restart.")
		mem := message.NewMemoryStore()
		if cfg.DevAdminEmail != "" {
			admin, err := mem.SeedAdmin(cfg.DevAdminEmail, cfg.DevAdminPassword)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to seed development admin: %w", err)
			}
			logx.Info("Seeded development admin", "user_id", admin.ID, "email", admin.Email)
		}
		return mem, func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	logx.Info("Connected to PostgreSQL")
	return db.NewPGStore(pool), pool.Close, nil
}

// openSendLimiter returns the per-user send limiter: Redis-backed when REDIS_ADDR
// is set so limits hold across instances, in-process otherwise.
func openSendLimiter(ctx context.Context, cfg *configs.AppConfig) (limiter.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		l := limiter.NewKeyedLimiter(rate.Limit(cfg.MessageRate), cfg.MessageBurst)
		return l, l.Stop, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logx.Info("Redis connection established", "addr", cfg.RedisAddr)

	window := limiter.WindowFor(cfg.MessageRate, cfg.MessageBurst)
	l := limiter.NewRedisLimiter(rdb, "talentx:send", cfg.MessageBurst, window)

	return l, func() { _ = rdb.Close() }, nil
}
