package storage

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/KxllSwxtch/patriki-bot/internal/storage/migrations"
)

// Migrate applies the embedded schema migrations.
func (s *PostgresStorage) Migrate(ctx context.Context) error {
	const operation = "storage.Migrate"

	s.logger.Info("Running database migrations...")

	goose.SetBaseFS(migrations.Files)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: failed to set dialect: %w", operation, err)
	}

	if err := goose.UpContext(ctx, s.db.DB, "."); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", operation, err)
	}

	s.logger.Info("Database migrations completed successfully")
	return nil
}
