package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// LeadWithCount pairs a lead with its appeal count for listings.
type LeadWithCount struct {
	Lead        domain.Lead
	AppealCount int
}

// LeadRepository handles persistence for leads.
type LeadRepository interface {
	// GetOrCreate deduplicates leads by external ID. Concurrent intakes for
	// the same external ID converge on a single row.
	GetOrCreate(ctx context.Context, externalID string) (*domain.Lead, error)
	GetByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, limit, offset int) ([]LeadWithCount, error)
}

type leadRepository struct {
	pool *pgxpool.Pool
}

// NewLeadRepository instantiates the repository.
func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &leadRepository{pool: pool}
}

func (r *leadRepository) GetOrCreate(ctx context.Context, externalID string) (*domain.Lead, error) {
	// DO UPDATE instead of DO NOTHING so RETURNING always yields the row.
	const query = `
        INSERT INTO leads (external_id)
        VALUES ($1)
        ON CONFLICT (external_id)
        DO UPDATE SET external_id=EXCLUDED.external_id
        RETURNING id, external_id, created_at`

	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, externalID).Scan(
		&lead.ID,
		&lead.ExternalID,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	const query = `SELECT id, external_id, created_at FROM leads WHERE id=$1`

	var lead domain.Lead
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID,
		&lead.ExternalID,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepository) List(ctx context.Context, limit, offset int) ([]LeadWithCount, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`
        SELECT l.id, l.external_id, l.created_at, COUNT(a.id)
        FROM leads l
        LEFT JOIN appeals a ON a.lead_id = l.id
        GROUP BY l.id, l.external_id, l.created_at
        ORDER BY l.created_at DESC
        LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeadWithCount
	for rows.Next() {
		var item LeadWithCount
		if err := rows.Scan(
			&item.Lead.ID,
			&item.Lead.ExternalID,
			&item.Lead.CreatedAt,
			&item.AppealCount,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
