package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// OperatorRepository handles persistence for operators.
type OperatorRepository interface {
	Create(ctx context.Context, operator *domain.Operator) error
	Update(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id string) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
	List(ctx context.Context, filter OperatorFilter) ([]domain.Operator, error)
}

// OperatorFilter defines query params for operator listing.
type OperatorFilter struct {
	Role     *domain.OperatorRole
	IsActive *bool
	Limit    int
	Offset   int
}

type operatorRepository struct {
	pool *pgxpool.Pool
}

// NewOperatorRepository instantiates the repository.
func NewOperatorRepository(pool *pgxpool.Pool) OperatorRepository {
	return &operatorRepository{pool: pool}
}

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	const query = `
        INSERT INTO operators (name, email, password_hash, role, is_active, max_load)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		operator.Name,
		operator.Email,
		operator.PasswordHash,
		operator.Role,
		operator.IsActive,
		operator.MaxLoad,
	).Scan(&operator.ID, &operator.CreatedAt, &operator.UpdatedAt)
}

func (r *operatorRepository) Update(ctx context.Context, operator *domain.Operator) error {
	const query = `
        UPDATE operators
        SET name=$1, email=$2, password_hash=$3, role=$4, is_active=$5, max_load=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		operator.Name,
		operator.Email,
		operator.PasswordHash,
		operator.Role,
		operator.IsActive,
		operator.MaxLoad,
		operator.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *operatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	const query = `
        SELECT id, name, email, password_hash, role, is_active, max_load, created_at, updated_at
        FROM operators WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *operatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	const query = `
        SELECT id, name, email, password_hash, role, is_active, max_load, created_at, updated_at
        FROM operators WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *operatorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Operator, error) {
	var operator domain.Operator
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&operator.ID,
		&operator.Name,
		&operator.Email,
		&operator.PasswordHash,
		&operator.Role,
		&operator.IsActive,
		&operator.MaxLoad,
		&operator.CreatedAt,
		&operator.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) List(ctx context.Context, filter OperatorFilter) ([]domain.Operator, error) {
	query := `
        SELECT id, name, email, password_hash, role, is_active, max_load, created_at, updated_at
        FROM operators`
	args := []any{}
	clauses := []string{}

	if filter.Role != nil {
		args = append(args, *filter.Role)
		clauses = append(clauses, fmt.Sprintf("role=$%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
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

	var result []domain.Operator
	for rows.Next() {
		var operator domain.Operator
		if err := rows.Scan(
			&operator.ID,
			&operator.Name,
			&operator.Email,
			&operator.PasswordHash,
			&operator.Role,
			&operator.IsActive,
			&operator.MaxLoad,
			&operator.CreatedAt,
			&operator.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, operator)
	}
	return result, rows.Err()
}
