package session

import (
	"context"
	"time"
)

// CookieName carries the session id; it is the only place the id travels.
const CookieName = "session_id"

// TTL is fixed from creation. Sessions are not renewed on activity; a new
// register or verify-token call is the only way to get a fresh one.
const TTL = 24 * time.Hour

// Store maps opaque session ids to user ids. A missing, expired or never
// issued session is reported through the bool, not as an error.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	Resolve(ctx context.Context, sessionID string) (int64, bool, error)
}
