package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/spbbolshoy-create/sale-spectech-bot/internal/logger"
)

// UserRepo persists marketplace users.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a user repository over the shared pool.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

const upsertUserQuery = `
INSERT INTO users (telegram_id, username, full_name)
VALUES ($1, $2, $3)
ON CONFLICT (telegram_id)
DO UPDATE SET username = EXCLUDED.username, full_name = EXCLUDED.full_name`

// Upsert registers a user on first contact and refreshes the profile fields
// on every subsequent one. Role is not stored here; it comes from config.
func (r *UserRepo) Upsert(ctx context.Context, telegramID int64, username, fullName string) error {
	start := time.Now()
	_, err := r.db.ExecContext(ctx, upsertUserQuery, telegramID, username, fullName)
	logger.SVCUsers.LogAttrs(ctx, slog.LevelDebug, "user.upsert",
		slog.String("status", logger.Status(err)),
		slog.Int64("user_id", telegramID),
		slog.Duration("duration", logger.Took(start)),
	)
	return err
}

// CountUsers returns the number of registered users.
func (r *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}
