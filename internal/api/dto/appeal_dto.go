package dto

import (
	"time"

	"github.com/spec-kit/appeal-router/internal/domain"
)

// CreateAppealRequest payload.
type CreateAppealRequest struct {
	ExternalID string  `json:"external_id"`
	SourceID   string  `json:"source_id"`
	Message    *string `json:"message,omitempty"`
}

// AppealResponse response.
type AppealResponse struct {
	ID         string              `json:"id"`
	LeadID     string              `json:"lead_id"`
	SourceID   string              `json:"source_id"`
	OperatorID *string             `json:"operator_id"`
	Status     domain.AppealStatus `json:"status"`
	Message    *string             `json:"message,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	ResolvedAt *time.Time          `json:"resolved_at,omitempty"`
}
