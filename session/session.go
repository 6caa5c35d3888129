// Package session owns the browser's authenticated state for the lifetime
// of its visit: one record per browser, resolved once from the stored
// bearer token, shared read-only by every page, and cleared by logout or by
// a server-side rejection of the token.
package session

import (
	"time"

	"github.com/pkg/errors"

	"github.com/jobvine/jobvine-web/backend"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// Session is the in-memory authenticated state for one browser.
//
// A stored record is always a resolved terminal state: Initialize persists
// nothing until the one-time token check has completed, so LoadingAuth is
// false on every record read back from the repo. The field exists because
// the session JSON endpoint reports it to page scripts; with the check
// running synchronously inside the first request it never surfaces as true.
// After resolution the state only changes through logout, a forced logout
// on a rejected token, or a verified-user refresh. Generation increments on
// every forced state change so that an async verification resolving late
// can detect it is acting on a stale view.
type Session struct {
	ID          string
	Generation  uint64
	LoggedIn    bool
	LoadingAuth bool
	User        *backend.User
	CreatedAt   time.Time
	VerifiedAt  time.Time
}

// Repo stores sessions keyed by id.
//
// Update applies fn to the stored session while holding the write lock, so
// concurrent read-modify-write transitions (a background verification
// landing against a logout, two requests stamping the same session) cannot
// interleave and resurrect overwritten state. A missing id presents fn with
// the zero Session; whatever fn returns is stored.
type Repo interface {
	Upsert(id string, session Session) error
	Get(id string) (Session, error)
	Update(id string, fn func(Session) Session) (Session, error)
	Delete(id string) error
}
