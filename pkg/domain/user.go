package domain

import "github.com/google/uuid"

// User represents a registered avanto user.
//
// The profile is cached client-side for display only; the backend remains
// the source of truth.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
