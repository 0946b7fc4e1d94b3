package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// SourceRepository handles persistence for sources.
type SourceRepository interface {
	Create(ctx context.Context, source *domain.Source) error
	GetByID(ctx context.Context, id string) (*domain.Source, error)
	List(ctx context.Context, limit, offset int) ([]domain.Source, error)
}

type sourceRepository struct {
	pool *pgxpool.Pool
}

// NewSourceRepository instantiates the repository.
func NewSourceRepository(pool *pgxpool.Pool) SourceRepository {
	return &sourceRepository{pool: pool}
}

func (r *sourceRepository) Create(ctx context.Context, source *domain.Source) error {
	const query = `
        INSERT INTO sources (name)
        VALUES ($1)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, source.Name).Scan(&source.ID, &source.CreatedAt)
}

func (r *sourceRepository) GetByID(ctx context.Context, id string) (*domain.Source, error) {
	const query = `SELECT id, name, created_at FROM sources WHERE id=$1`

	var source domain.Source
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&source.ID,
		&source.Name,
		&source.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *sourceRepository) List(ctx context.Context, limit, offset int) ([]domain.Source, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT id, name, created_at FROM sources ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Source
	for rows.Next() {
		var source domain.Source
		if err := rows.Scan(&source.ID, &source.Name, &source.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, source)
	}
	return result, rows.Err()
}
