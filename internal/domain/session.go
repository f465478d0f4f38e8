package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated login instance identified by an opaque token.
// IsCurrent is derived at read time by comparing against the caller's own
// presented token; it is never persisted.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	IsCurrent bool      `json:"is_current"`
}
