package dto

import "time"

// LeadSummary lists a lead with its appeal count.
type LeadSummary struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	AppealCount int       `json:"appeal_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeadDetailResponse provides a lead with its appeals.
type LeadDetailResponse struct {
	ID         string           `json:"id"`
	ExternalID string           `json:"external_id"`
	CreatedAt  time.Time        `json:"created_at"`
	Appeals    []AppealResponse `json:"appeals"`
}
