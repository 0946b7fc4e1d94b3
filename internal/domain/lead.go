package domain

import "time"

// Lead identifies a customer by an external system identifier. Appeals
// accumulate under a lead; the external ID is the deduplication key.
type Lead struct {
	ID         string
	ExternalID string
	CreatedAt  time.Time
}
