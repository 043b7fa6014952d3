package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"persona-quiz-service/internal/domain"
)

// CatalogLoader loads question and category JSONB from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM questions ORDER BY position`)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return domain.Catalog{}, fmt.Errorf("scan question: %w", err)
		}
		var question domain.Question
		if err := json.Unmarshal(raw, &question); err != nil {
			return domain.Catalog{}, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return domain.Catalog{}, domain.ErrCatalogUnavailable
	}

	categories, err := l.loadCategories(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	return domain.Catalog{Questions: questions, Categories: categories}, nil
}

func (l *CatalogLoader) loadCategories(ctx context.Context) (map[string]domain.Category, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]domain.Category)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		var category domain.Category
		if err := json.Unmarshal(raw, &category); err != nil {
			return nil, fmt.Errorf("unmarshal category: %w", err)
		}
		categories[category.ID] = category
	}
	return categories, rows.Err()
}
