package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/KxllSwxtch/patriki-bot/internal/bot"
	"github.com/KxllSwxtch/patriki-bot/internal/config"
	"github.com/KxllSwxtch/patriki-bot/internal/metrics"
	"github.com/KxllSwxtch/patriki-bot/internal/session"
	"github.com/KxllSwxtch/patriki-bot/internal/storage"
	"github.com/KxllSwxtch/patriki-bot/pkg/logger"
	"github.com/KxllSwxtch/patriki-bot/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zapLogger, err := logger.New(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	// Session and history stores: Redis-backed when configured, so a
	// half-filled form survives a restart; in-memory otherwise.
	var sessions session.Store
	var history session.HistoryStore

	if cfg.RedisAddr != "" {
		redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}

		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		history = session.NewRedisHistory(redisClient)
	} else {
		zapLogger.Warn("REDIS_ADDR not set, keeping sessions in memory")
		sessions = session.NewMemoryStore()
		history = session.NewMemoryHistory()
	}

	// Optional Postgres order log behind the admin commands.
	var pgStorage *storage.PostgresStorage
	if cfg.DatabaseEnabled() {
		pgStorage, err = storage.NewPostgresStorage(ctx, storage.Config{
			Host:            cfg.DBHost,
			Port:            cfg.DBPort,
			User:            cfg.DBUser,
			Password:        cfg.DBPassword,
			DBName:          cfg.DBName,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		}, zapLogger)
		if err != nil {
			return fmt.Errorf("init postgres storage: %w", err)
		}
		defer pgStorage.Close()

		if err := pgStorage.Migrate(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	} else {
		zapLogger.Warn("DB_HOST not set, order log and admin commands disabled")
	}

	m := metrics.Registry("patriki")
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr, zapLogger); err != nil {
				zapLogger.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	tgBot, err := bot.New(cfg, sessions, history, pgStorage, m, zapLogger)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	if err := tgBot.Start(ctx); err != nil {
		return fmt.Errorf("bot stopped: %w", err)
	}

	zapLogger.Info("Bot shutdown gracefully")
	return nil
}
