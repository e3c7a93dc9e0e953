// Package session provides the server-side session store.
// A session maps an opaque identifier to the authenticated identity
// of a logged-in user; the identifier reaches the client as a signed
// cookie and the record expires after a fixed TTL or on logout.
package session

import (
	"context"
	"errors"

	"github.com/taskhub/taskhub/internal/model"
)

// ErrSessionNotFound indicates the session does not exist or has expired.
var ErrSessionNotFound = errors.New("session not found")

// Store is the session persistence abstraction.
// Implementations must be safe for concurrent use; records are keyed
// by unique IDs so there is no cross-session contention.
type Store interface {
	// Create stores the identity under a new session ID and returns the ID.
	Create(ctx context.Context, identity *model.Identity) (string, error)

	// Resolve returns the identity for a session ID.
	// Returns ErrSessionNotFound for unknown or expired sessions.
	Resolve(ctx context.Context, id string) (*model.Identity, error)

	// Destroy removes a session. Destroying a session that does not
	// exist is not an error.
	Destroy(ctx context.Context, id string) error
}
