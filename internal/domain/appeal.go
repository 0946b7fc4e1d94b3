package domain

import "time"

// AppealStatus enumerates appeal lifecycle states.
type AppealStatus string

const (
	AppealStatusOpen     AppealStatus = "OPEN"
	AppealStatusResolved AppealStatus = "RESOLVED"
)

// Appeal is one inbound contact event from a lead via a source. The operator
// reference is set at most once, at creation time, and never reassigned. Load
// counts only OPEN appeals; resolving an assigned appeal releases one unit of
// the operator's load.
type Appeal struct {
	ID         string
	LeadID     string
	SourceID   string
	OperatorID *string
	Status     AppealStatus
	Message    *string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
