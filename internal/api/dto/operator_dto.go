package dto

import (
	"time"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// CreateOperatorRequest payload.
type CreateOperatorRequest struct {
	Name     string              `json:"name"`
	Email    *string             `json:"email,omitempty"`
	Password *string             `json:"password,omitempty"`
	Role     domain.OperatorRole `json:"role,omitempty"`
	IsActive *bool               `json:"is_active,omitempty"`
	MaxLoad  int                 `json:"max_load,omitempty"`
}

// UpdateOperatorRequest supports partial updates.
type UpdateOperatorRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	MaxLoad  *int    `json:"max_load,omitempty"`
}

// OperatorResponse response, without credentials.
type OperatorResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Email     *string             `json:"email,omitempty"`
	Role      domain.OperatorRole `json:"role"`
	IsActive  bool                `json:"is_active"`
	MaxLoad   int                 `json:"max_load"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// SetAffinityRequest payload.
type SetAffinityRequest struct {
	OperatorID string `json:"operator_id"`
	SourceID   string `json:"source_id"`
	Weight     int    `json:"weight"`
}

// AffinityResponse response.
type AffinityResponse struct {
	ID         string    `json:"id"`
	OperatorID string    `json:"operator_id"`
	SourceID   string    `json:"source_id"`
	Weight     int       `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
