package session

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
	"github.com/jobvine/jobvine-web/token"
)

// LandingRoute is where a browser is sent after logout or after any failed
// authorization check.
const LandingRoute = "/login"

const (
	defaultVerifyTimeout = 10 * time.Second
	defaultReverifyAfter = 30 * time.Second
)

// Manager is the single source of truth for auth state. It alone reads the
// decoder and decides transitions; pages and the navbar consume the Session
// it produces and never re-derive login state themselves.
type Manager struct {
	repo          Repo
	verifier      TokenVerifier
	decoder       *token.Decoder
	verifyTimeout time.Duration
	reverifyAfter time.Duration
	nowTime       func() time.Time
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = now
	}
}

// WithDecoder replaces the token decoder (primarily for testing with a
// fixed clock).
func WithDecoder(d *token.Decoder) ManagerOption {
	return func(m *Manager) {
		m.decoder = d
	}
}

// WithVerifyTimeout bounds each background verification call.
func WithVerifyTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.verifyTimeout = d
	}
}

// WithReverifyAfter sets how stale a session's last confirmation may get
// before the next request triggers another background verification.
func WithReverifyAfter(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.reverifyAfter = d
	}
}

// NewManager initializes a new Manager with required dependencies.
func NewManager(repo Repo, verifier TokenVerifier, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] repo is required")
	}
	if verifier == nil {
		return nil, errors.New("[NewManager] verifier is required")
	}

	m := &Manager{
		repo:          repo,
		verifier:      verifier,
		decoder:       token.NewDecoder(),
		verifyTimeout: defaultVerifyTimeout,
		reverifyAfter: defaultReverifyAfter,
		nowTime:       time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Initialize resolves the terminal auth state for sid from the raw token the
// browser presented. It runs the token check at most once per session id;
// later calls return the already-resolved state.
//
// The second return value reports that the stored token was present but
// unusable (malformed or expired) and should be discarded by the caller.
// No network call is ever made here - a locally-valid token renders an
// optimistic logged-in state and confirmation happens strictly later.
func (m *Manager) Initialize(sid, rawToken string) (Session, bool) {
	// Only resolved states are ever stored, so an existing record means
	// the check already ran for this session id.
	if existing, err := m.repo.Get(sid); err == nil {
		return existing, false
	}

	sess := Session{
		ID:          sid,
		LoadingAuth: false,
		CreatedAt:   m.nowTime(),
	}

	if rawToken == "" {
		m.store(sess)
		return sess, false
	}

	claims := m.decoder.Decode(rawToken)
	if claims == nil {
		// Present but unusable: resolve logged-out and tell the caller to
		// clean up the stored token.
		m.store(sess)
		return sess, true
	}

	sess.LoggedIn = true
	sess.User = &backend.User{
		ID:        claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}
	m.store(sess)
	return sess, false
}

// Login adopts a freshly issued token for sid, replacing whatever state the
// session held before. It fails only when the backend handed out a token
// this client cannot even decode locally.
func (m *Manager) Login(sid, rawToken string) (Session, error) {
	claims := m.decoder.Decode(rawToken)
	if claims == nil {
		return Session{}, errors.New("[Manager.Login] issued token is not locally usable")
	}

	sess, _ := m.update(sid, func(existing Session) Session {
		return Session{
			ID:          sid,
			Generation:  existing.Generation + 1,
			LoggedIn:    true,
			LoadingAuth: false,
			User: &backend.User{
				ID:        claims.UserID,
				Email:     claims.Email,
				FirstName: claims.FirstName,
				LastName:  claims.LastName,
			},
			CreatedAt: m.nowTime(),
		}
	})
	return sess, nil
}

// Get returns the current state for sid.
func (m *Manager) Get(sid string) (Session, error) {
	return m.repo.Get(sid)
}

// Logout resets sid to logged-out, regardless of prior state, and returns
// the landing route the browser must be sent to. The caller clears the
// token vault in the same response; after Logout returns no page may treat
// the session as authenticated. The reset and the generation bump happen
// in one atomic repo update, so a verification resolving concurrently can
// never re-adopt a user over it.
func (m *Manager) Logout(sid string) string {
	m.update(sid, func(sess Session) Session {
		if sess.ID == "" {
			sess.ID = sid
			sess.CreatedAt = m.nowTime()
		}
		sess.LoggedIn = false
		sess.LoadingAuth = false
		sess.User = nil
		sess.Generation++
		return sess
	})
	return LandingRoute
}

// store persists sess, downgrading persistence failures to a log line: an
// auth-state write must never propagate an error into page rendering.
func (m *Manager) store(sess Session) {
	if err := m.repo.Upsert(sess.ID, sess); err != nil {
		log.Err(err).Str("session_id", sess.ID).Msg("Failed to persist session state")
	}
}

// update applies an atomic state transition, downgrading persistence
// failures the same way store does.
func (m *Manager) update(sid string, fn func(Session) Session) (Session, bool) {
	sess, err := m.repo.Update(sid, fn)
	if err != nil {
		log.Err(err).Str("session_id", sid).Msg("Failed to persist session state")
		return Session{}, false
	}
	return sess, true
}
