package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type BanRepository struct {
	db *sqlx.DB
}

func NewBanRepository(db *sqlx.DB) *BanRepository {
	return &BanRepository{
		db: db,
	}
}

// Проверить, забанен ли пользователь
func (r *BanRepository) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var count int

	err := r.db.GetContext(ctx, &count, r.db.Rebind(`
	    SELECT COUNT(*) FROM banned_users
		WHERE user_id = ?
	`), userID)
	if err != nil {
		return false, fmt.Errorf("BanRepository.IsBanned: %w", err)
	}

	return count > 0, nil
}

// Ban is idempotent: banning twice keeps the first banned_at.
func (r *BanRepository) Ban(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	    INSERT INTO banned_users (user_id) VALUES (?)
		ON CONFLICT (user_id) DO NOTHING
	`), userID)
	if err != nil {
		return fmt.Errorf("BanRepository.Ban: %w", err)
	}

	return nil
}

// Unban reports whether a ban existed.
func (r *BanRepository) Unban(ctx context.Context, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM banned_users WHERE user_id = ?`), userID)
	if err != nil {
		return false, fmt.Errorf("BanRepository.Unban: %w", err)
	}

	return affected(res, "BanRepository.Unban")
}
