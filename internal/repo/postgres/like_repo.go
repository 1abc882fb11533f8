package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
)

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

// Create inserts a like edge. Duplicate (source, target) pairs are
// allowed; the schema carries no uniqueness constraint on them.
func (r *LikeRepo) Create(ctx context.Context, fromUserID, targetUserID int64, createdAt time.Time) (model.LikeEdge, error) {
	if r.pool == nil {
		return model.LikeEdge{}, fmt.Errorf("postgres pool is nil")
	}
	if fromUserID <= 0 || targetUserID <= 0 {
		return model.LikeEdge{}, fmt.Errorf("invalid like payload")
	}

	var edge model.LikeEdge
	err := r.pool.QueryRow(ctx, `
INSERT INTO user_matches (user_id, target_user_id, created_at)
VALUES ($1, $2, $3)
RETURNING id, user_id, target_user_id, created_at
`, fromUserID, targetUserID, createdAt).Scan(
		&edge.ID, &edge.FromUserID, &edge.TargetUserID, &edge.CreatedAt,
	)
	if err != nil {
		return model.LikeEdge{}, fmt.Errorf("insert like edge: %w", err)
	}

	return edge, nil
}

func (r *LikeRepo) Exists(ctx context.Context, fromUserID, targetUserID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if fromUserID <= 0 || targetUserID <= 0 {
		return false, fmt.Errorf("invalid like lookup payload")
	}

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1
FROM user_matches
WHERE user_id = $1 AND target_user_id = $2
LIMIT 1
`, fromUserID, targetUserID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup like edge: %w", err)
	}

	return true, nil
}

// CountRecentBySource counts edges created by a user at or after the
// given instant; the daily limit check uses a sliding 24h window.
func (r *LikeRepo) CountRecentBySource(ctx context.Context, fromUserID int64, since time.Time) (int, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if fromUserID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int
	err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM user_matches
WHERE user_id = $1 AND created_at >= $2
`, fromUserID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count recent like edges: %w", err)
	}

	return count, nil
}
