package dto

import "time"

// CreateSourceRequest payload.
type CreateSourceRequest struct {
	Name string `json:"name"`
}

// SourceResponse response.
type SourceResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
