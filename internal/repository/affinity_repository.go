package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// AffinityRepository handles persistence for operator-source links. Its
// ListEligible query is the storage half of the eligibility resolver.
type AffinityRepository interface {
	Upsert(ctx context.Context, affinity *domain.Affinity) error
	List(ctx context.Context, filter AffinityFilter) ([]domain.Affinity, error)
	ListEligible(ctx context.Context, sourceID string) ([]domain.SourceLink, error)
}

// AffinityFilter defines query params for affinity listing.
type AffinityFilter struct {
	OperatorID *string
	SourceID   *string
}

type affinityRepository struct {
	pool *pgxpool.Pool
}

// NewAffinityRepository instantiates the repository.
func NewAffinityRepository(pool *pgxpool.Pool) AffinityRepository {
	return &affinityRepository{pool: pool}
}

func (r *affinityRepository) Upsert(ctx context.Context, affinity *domain.Affinity) error {
	const query = `
        INSERT INTO operator_sources (operator_id, source_id, weight)
        VALUES ($1,$2,$3)
        ON CONFLICT (operator_id, source_id)
        DO UPDATE SET weight=EXCLUDED.weight, updated_at=NOW()
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		affinity.OperatorID,
		affinity.SourceID,
		affinity.Weight,
	).Scan(&affinity.ID, &affinity.CreatedAt, &affinity.UpdatedAt)
}

func (r *affinityRepository) List(ctx context.Context, filter AffinityFilter) ([]domain.Affinity, error) {
	query := `
        SELECT id, operator_id, source_id, weight, created_at, updated_at
        FROM operator_sources`
	args := []any{}
	clauses := []string{}

	if filter.OperatorID != nil {
		args = append(args, *filter.OperatorID)
		clauses = append(clauses, fmt.Sprintf("operator_id=$%d", len(args)))
	}
	if filter.SourceID != nil {
		args = append(args, *filter.SourceID)
		clauses = append(clauses, fmt.Sprintf("source_id=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Affinity
	for rows.Next() {
		var affinity domain.Affinity
		if err := rows.Scan(
			&affinity.ID,
			&affinity.OperatorID,
			&affinity.SourceID,
			&affinity.Weight,
			&affinity.CreatedAt,
			&affinity.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, affinity)
	}
	return result, rows.Err()
}

// ListEligible returns active operators linked to the source with their
// weights and capacities. Zero-weight links are included; capacity filtering
// happens in the resolver against live load counters.
func (r *affinityRepository) ListEligible(ctx context.Context, sourceID string) ([]domain.SourceLink, error) {
	const query = `
        SELECT o.id, os.weight, o.max_load
        FROM operator_sources os
        JOIN operators o ON o.id = os.operator_id
        WHERE os.source_id = $1 AND o.is_active
        ORDER BY o.id`

	rows, err := r.pool.Query(ctx, query, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SourceLink
	for rows.Next() {
		var link domain.SourceLink
		if err := rows.Scan(&link.OperatorID, &link.Weight, &link.MaxLoad); err != nil {
			return nil, err
		}
		result = append(result, link)
	}
	return result, rows.Err()
}
