package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptGate records completed attempts in Postgres. The claim is a single
// INSERT ... ON CONFLICT DO NOTHING, so concurrent submissions from one user
// race on the primary key and exactly one row insert succeeds.
type AttemptGate struct {
	pool *pgxpool.Pool
}

func NewAttemptGate(pool *pgxpool.Pool) *AttemptGate {
	return &AttemptGate{pool: pool}
}

func (g *AttemptGate) Completed(ctx context.Context, userID string) (bool, error) {
	var done bool
	err := g.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM attempts WHERE user_id=$1)`, userID).Scan(&done)
	if err != nil {
		return false, fmt.Errorf("check attempt: %w", err)
	}
	return done, nil
}

func (g *AttemptGate) Claim(ctx context.Context, userID, token string) (bool, error) {
	tag, err := g.pool.Exec(ctx,
		`INSERT INTO attempts (user_id, result_token) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, token,
	)
	if err != nil {
		return false, fmt.Errorf("claim attempt: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (g *AttemptGate) Release(ctx context.Context, userID string) error {
	_, err := g.pool.Exec(ctx, `DELETE FROM attempts WHERE user_id=$1`, userID)
	if err != nil {
		return fmt.Errorf("release attempt: %w", err)
	}
	return nil
}
