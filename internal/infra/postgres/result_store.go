package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"persona-quiz-service/internal/domain"
)

// ResultStore persists verdict results as JSONB rows. The table is
// append-only; a unique index on owner_id backs up the attempt gate so the
// database itself refuses a second result per user.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) Save(ctx context.Context, result domain.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO results (token, owner_id, data, created_at) VALUES ($1, $2, $3, $4)`,
		result.Token, result.OwnerID, raw, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) FindByToken(ctx context.Context, token string) (domain.Result, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM results WHERE token=$1`, token).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("load result: %w", err)
	}
	var result domain.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.Result{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return result, nil
}
