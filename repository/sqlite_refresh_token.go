package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emirpasa/kalem/database"
	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
)

// sqliteRefreshTokenRepo, RefreshTokenRepository'nin SQLite implementasyonu.
type sqliteRefreshTokenRepo struct {
	db database.TxQuerier
}

// NewSQLiteRefreshTokenRepo, constructor.
func NewSQLiteRefreshTokenRepo(db database.TxQuerier) RefreshTokenRepository {
	return &sqliteRefreshTokenRepo{db: db}
}

func (r *sqliteRefreshTokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	token.ID = uuid.NewString()

	query := `
		INSERT INTO refresh_tokens (id, token, user_id, expires_at)
		VALUES (?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		token.ID, token.Token, token.UserID, token.ExpiresAt,
	).Scan(&token.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

func (r *sqliteRefreshTokenRepo) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, token, user_id, created_at, expires_at, revoked_at
		FROM refresh_tokens WHERE token = ?`

	rt := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID, &rt.Token, &rt.UserID, &rt.CreatedAt, &rt.ExpiresAt, &rt.RevokedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return rt, nil
}

func (r *sqliteRefreshTokenRepo) Revoke(ctx context.Context, token string) error {
	// WHERE revoked_at IS NULL: zaten iptal edilmiş token'ın revoked_at
	// zamanı değişmez. 0 satır etkilenmesi hata DEĞİL — idempotent.
	query := `
		UPDATE refresh_tokens SET revoked_at = CURRENT_TIMESTAMP
		WHERE token = ? AND revoked_at IS NULL`

	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

func (r *sqliteRefreshTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return affected, nil
}
