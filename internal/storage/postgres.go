package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStorage is the append-only order log behind the admin
// /orders and /export commands. The bot runs without it when no
// database is configured.
type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Order is one submitted order as persisted. OrderText is the same
// formatted notification the staff channel received.
type Order struct {
	ID        int64     `db:"id"`
	OrderRef  string    `db:"order_ref"`
	UserID    int64     `db:"user_id"`
	Username  string    `db:"username"`
	OrderText string    `db:"order_text"`
	CreatedAt time.Time `db:"created_at"`
}

func NewPostgresStorage(ctx context.Context, cfg Config, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		logger: logger,
	}, nil
}

func (s *PostgresStorage) SaveOrder(ctx context.Context, order Order) (int64, error) {
	const query = `
        INSERT INTO orders (order_ref, user_id, username, order_text, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `

	var orderID int64
	err := s.db.QueryRowContext(ctx, query,
		order.OrderRef,
		order.UserID,
		order.Username,
		order.OrderText,
		order.CreatedAt,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("failed to save order: %w", err)
	}

	return orderID, nil
}

func (s *PostgresStorage) ListRecentOrders(ctx context.Context, limit int) ([]Order, error) {
	const query = `
        SELECT id, order_ref, user_id, username, order_text, created_at
        FROM orders
        ORDER BY created_at DESC
        LIMIT $1
    `

	var orders []Order
	if err := s.db.SelectContext(ctx, &orders, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
