package events

import (
	"time"

	"github.com/spec-kit/appeal-router/internal/assignment"
	"github.com/spec-kit/appeal-router/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAppealCreated   EventType = "appeal_created"
	EventAppealAssigned  EventType = "appeal_assigned"
	EventAppealResolved  EventType = "appeal_resolved"
	EventOperatorUpdated EventType = "operator_updated"
)

// Event represents a domain event emitted by services. EntityID references
// the appeal or operator the event is about.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AppealCreatedPayload payload.
type AppealCreatedPayload struct {
	LeadID   string            `json:"lead_id"`
	SourceID string            `json:"source_id"`
	Reason   assignment.Reason `json:"routing_reason"`
}

// AppealAssignedPayload payload.
type AppealAssignedPayload struct {
	OperatorID string `json:"operator_id"`
	SourceID   string `json:"source_id"`
}

// AppealResolvedPayload payload.
type AppealResolvedPayload struct {
	OperatorID *string `json:"operator_id,omitempty"`
	SourceID   string  `json:"source_id"`
}

// OperatorUpdatedPayload payload.
type OperatorUpdatedPayload struct {
	IsActive bool                `json:"is_active"`
	MaxLoad  int                 `json:"max_load"`
	Role     domain.OperatorRole `json:"role"`
}
