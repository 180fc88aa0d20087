package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account. It is the payer/author
// identity referenced by collections and payments.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
