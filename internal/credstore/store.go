// Package credstore persists the portal session across runs. The
// token and player profile are saved as one record so the pair can
// never be observed half-written.
package credstore

import "github.com/gameportal/portal-go/internal/model"

// Store holds the current session credential.
type Store interface {
	// Load returns the persisted session, if any. It never fails:
	// unreadable or malformed persisted data is reported as absent.
	Load() (model.Session, bool)

	// Save persists the session token and player as a unit.
	Save(session model.Session) error

	// Clear removes any persisted session. Idempotent.
	Clear() error
}
