package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// AppealFilter captures appeal search parameters.
type AppealFilter struct {
	LeadID     *string
	SourceID   *string
	OperatorID *string
	Status     *domain.AppealStatus
	Limit      int
	Offset     int
}

// AppealRepository encapsulates appeal persistence.
type AppealRepository interface {
	Create(ctx context.Context, appeal *domain.Appeal) error
	GetByID(ctx context.Context, id string) (*domain.Appeal, error)
	// MarkResolved transitions an OPEN appeal to RESOLVED. It returns
	// pgx.ErrNoRows when the appeal does not exist or is already resolved,
	// which keeps a concurrent double-resolve from releasing load twice.
	MarkResolved(ctx context.Context, id string) (*domain.Appeal, error)
	ListWithFilter(ctx context.Context, filter AppealFilter) ([]domain.Appeal, error)
	// OpenLoads aggregates the current OPEN appeal count per assigned
	// operator, used to seed the load guard at startup.
	OpenLoads(ctx context.Context) (map[string]int, error)
}

type appealRepository struct {
	pool *pgxpool.Pool
}

// NewAppealRepository instantiates repository.
func NewAppealRepository(pool *pgxpool.Pool) AppealRepository {
	return &appealRepository{pool: pool}
}

func (r *appealRepository) Create(ctx context.Context, appeal *domain.Appeal) error {
	const query = `
        INSERT INTO appeals (lead_id, source_id, operator_id, status, message)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		appeal.LeadID,
		appeal.SourceID,
		appeal.OperatorID,
		appeal.Status,
		appeal.Message,
	).Scan(&appeal.ID, &appeal.CreatedAt)
}

func (r *appealRepository) GetByID(ctx context.Context, id string) (*domain.Appeal, error) {
	const query = `
        SELECT id, lead_id, source_id, operator_id, status, message, created_at, resolved_at
        FROM appeals WHERE id=$1`

	var appeal domain.Appeal
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&appeal.ID,
		&appeal.LeadID,
		&appeal.SourceID,
		&appeal.OperatorID,
		&appeal.Status,
		&appeal.Message,
		&appeal.CreatedAt,
		&appeal.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &appeal, nil
}

func (r *appealRepository) MarkResolved(ctx context.Context, id string) (*domain.Appeal, error) {
	const query = `
        UPDATE appeals SET status=$1, resolved_at=NOW()
        WHERE id=$2 AND status=$3
        RETURNING id, lead_id, source_id, operator_id, status, message, created_at, resolved_at`

	var appeal domain.Appeal
	if err := r.pool.QueryRow(ctx, query, domain.AppealStatusResolved, id, domain.AppealStatusOpen).Scan(
		&appeal.ID,
		&appeal.LeadID,
		&appeal.SourceID,
		&appeal.OperatorID,
		&appeal.Status,
		&appeal.Message,
		&appeal.CreatedAt,
		&appeal.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &appeal, nil
}

func (r *appealRepository) ListWithFilter(ctx context.Context, filter AppealFilter) ([]domain.Appeal, error) {
	query := `
        SELECT id, lead_id, source_id, operator_id, status, message, created_at, resolved_at
        FROM appeals`
	args := []any{}
	clauses := []string{}

	if filter.LeadID != nil {
		args = append(args, *filter.LeadID)
		clauses = append(clauses, fmt.Sprintf("lead_id=$%d", len(args)))
	}
	if filter.SourceID != nil {
		args = append(args, *filter.SourceID)
		clauses = append(clauses, fmt.Sprintf("source_id=$%d", len(args)))
	}
	if filter.OperatorID != nil {
		args = append(args, *filter.OperatorID)
		clauses = append(clauses, fmt.Sprintf("operator_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Appeal
	for rows.Next() {
		var appeal domain.Appeal
		if err := rows.Scan(
			&appeal.ID,
			&appeal.LeadID,
			&appeal.SourceID,
			&appeal.OperatorID,
			&appeal.Status,
			&appeal.Message,
			&appeal.CreatedAt,
			&appeal.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, appeal)
	}
	return result, rows.Err()
}

func (r *appealRepository) OpenLoads(ctx context.Context) (map[string]int, error) {
	const query = `
        SELECT operator_id, COUNT(*)
        FROM appeals
        WHERE status=$1 AND operator_id IS NOT NULL
        GROUP BY operator_id`

	rows, err := r.pool.Query(ctx, query, domain.AppealStatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var operatorID string
		var count int
		if err := rows.Scan(&operatorID, &count); err != nil {
			return nil, err
		}
		result[operatorID] = count
	}
	return result, rows.Err()
}
