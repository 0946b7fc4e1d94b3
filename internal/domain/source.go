package domain

import "time"

// Source is an inbound channel through which appeals arrive.
type Source struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
