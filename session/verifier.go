package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

// TokenVerifier confirms with the backend that a locally-valid token is
// still accepted, returning the authoritative user record.
// *backend.Client satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*backend.User, error)
}

// MaybeVerify fires a background confirmation of the session's token when
// the last one is stale enough. Fire-and-forget: the caller renders from
// the local state immediately and is never blocked by this.
func (m *Manager) MaybeVerify(sid, rawToken string) {
	if rawToken == "" {
		return
	}
	if _, err := m.repo.Get(sid); err != nil {
		return
	}

	// Check-and-stamp in one atomic update: concurrent requests cannot
	// stack calls, and a revocation landing between the read and the stamp
	// cannot be overwritten with a stale logged-in state.
	var launch bool
	var generation uint64
	m.update(sid, func(sess Session) Session {
		launch = false
		if !sess.LoggedIn || m.nowTime().Sub(sess.VerifiedAt) < m.reverifyAfter {
			return sess
		}
		sess.VerifiedAt = m.nowTime()
		launch = true
		generation = sess.Generation
		return sess
	})
	if !launch {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.verifyTimeout)
		defer cancel()
		m.VerifyNow(ctx, sid, generation, rawToken)
	}()
}

// VerifyNow performs one verification round synchronously and applies the
// outcome:
//
//   - 200: adopt the backend's user record - it overrides locally decoded
//     claims - unless the session was logged out or replaced in the
//     meantime (generation mismatch), in which case the result is dropped.
//   - 401: the backend has revoked the token; force the session to
//     logged-out through the same path logout uses.
//   - anything else (network error, 5xx, timeout): fail open. The locally
//     decoded state stays trusted for this visit and the failure is only
//     logged.
func (m *Manager) VerifyNow(ctx context.Context, sid string, generation uint64, rawToken string) {
	user, err := m.verifier.Verify(ctx, rawToken)
	switch {
	case err == nil:
		m.adoptVerifiedUser(sid, generation, user)
	case errors.Is(err, backend.ErrUnauthorized):
		m.revoke(sid, generation)
	default:
		log.Warn().Err(err).Str("session_id", sid).
			Msg("Background verification failed; keeping local session")
	}
}

// adoptVerifiedUser refreshes the session's user from the backend response,
// dropping the result when the session moved on while the call was in
// flight. The generation check and the write happen under the repo's lock,
// so a concurrent logout can never be overwritten.
func (m *Manager) adoptVerifiedUser(sid string, generation uint64, user *backend.User) {
	m.update(sid, func(sess Session) Session {
		if sess.Generation != generation || !sess.LoggedIn {
			return sess
		}
		sess.User = user
		sess.VerifiedAt = m.nowTime()
		return sess
	})
}

// revoke forces a logged-out state after the backend rejected the token.
func (m *Manager) revoke(sid string, generation uint64) {
	m.update(sid, func(sess Session) Session {
		if sess.Generation != generation || !sess.LoggedIn {
			return sess
		}
		log.Info().Str("session_id", sid).Msg("Token rejected by backend; forcing logout")
		sess.LoggedIn = false
		sess.User = nil
		sess.Generation++
		return sess
	})
}
