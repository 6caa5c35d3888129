package session

import (
	"sync"

	"github.com/pkg/errors"
)

// InMemoryRepo is an in-memory implementation of Repo.
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemoryRepo creates a new in-memory session repository.
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]Session),
	}
}

// Upsert creates or updates a session.
func (r *InMemoryRepo) Upsert(id string, session Session) error {
	if id == "" {
		return errors.New("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = session
	return nil
}

// Get retrieves a session by id.
func (r *InMemoryRepo) Get(id string) (Session, error) {
	if id == "" {
		return Session{}, errors.New("session id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

// Update applies fn to the stored session under the write lock and stores
// the result. A missing id presents fn with the zero Session.
func (r *InMemoryRepo) Update(id string, fn func(Session) Session) (Session, error) {
	if id == "" {
		return Session{}, errors.New("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	updated := fn(r.sessions[id])
	r.sessions[id] = updated
	return updated, nil
}

// Delete removes a session. Deleting a session that does not exist is not
// an error.
func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return errors.New("session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
