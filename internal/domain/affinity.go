package domain

import "time"

// Affinity is a weighted link between an operator and a source. Weight zero is
// a valid persisted link that excludes the pair from random selection.
type Affinity struct {
	ID         string
	OperatorID string
	SourceID   string
	Weight     int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SourceLink is the routing view of an affinity: an active operator linked to
// a source, joined with the operator's capacity.
type SourceLink struct {
	OperatorID string
	Weight     int
	MaxLoad    int
}
