package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jobvine/jobvine-web/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the request's resolved RequestSession
const ContextKeySession ContextKey = "session"

// sessionIDCookie names the cookie carrying the browser's session id.
// The id is anonymous - the credential itself lives in the token vault.
const sessionIDCookie = "jobvine_sid"

// RequestSession is the request-scoped view of the browser's session: the
// resolved state plus the raw bearer token pages need for backend calls.
type RequestSession struct {
	session.Session
	Token          string
	TokenPresented bool
}

// SessionFrom extracts the resolved session from the request context.
func SessionFrom(ctx context.Context) (RequestSession, bool) {
	rs, ok := ctx.Value(ContextKeySession).(RequestSession)
	return rs, ok
}

// ResolveSession runs on every page route, public or protected. It reads
// the token vault, lets the session manager resolve the auth state (a
// one-time local decode, no network), cleans up a stored token that turned
// out to be unusable or revoked, fires the background verification for
// logged-in sessions, and attaches the result to the request context. The
// navbar and every page render from this one resolution - nothing else in
// the app reads the vault or decodes tokens.
func (s *Server) ResolveSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := s.ensureSessionID(w, r)

		raw, err := s.vault.Get(r)
		if err != nil {
			// Missing, tampered and unreadable cookies all read as logged
			// out, never as a rendered error.
			raw = ""
		}
		presented := raw != ""

		sess, stale := s.sessions.Initialize(sid, raw)
		if stale {
			// Malformed or expired token: silent cleanup, logged-out state.
			s.vault.Clear(w, r)
			raw = ""
		}

		if !sess.LoggedIn && raw != "" {
			// The vault still holds a token but the session was logged out
			// or revoked elsewhere; drop the credential.
			s.vault.Clear(w, r)
			raw = ""
		}

		if sess.LoggedIn && raw == "" {
			// The credential disappeared from the vault; the session
			// cannot outlive its token.
			s.sessions.Logout(sid)
			if fresh, err := s.sessions.Get(sid); err == nil {
				sess = fresh
			}
		}

		if sess.LoggedIn {
			s.sessions.MaybeVerify(sid, raw)
		}

		rs := RequestSession{Session: sess, Token: raw, TokenPresented: presented}
		ctx := context.WithValue(r.Context(), ContextKeySession, rs)
		next(w, r.WithContext(ctx))
	}
}

// RequireSession gates protected routes. States are Checking (nothing has
// been written yet), Authorized (pass through) and Unauthorized (blocking
// redirect to the login page, always with a visible notice - never a silent
// bounce and never a partial render of protected content).
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, ok := SessionFrom(r.Context())
		if !ok || !rs.LoggedIn {
			notice := NoticeSigninRequired
			if ok && rs.TokenPresented {
				notice = NoticeSessionExpired
			}
			s.redirectUnauthorized(w, r, notice)
			return
		}
		next(w, r)
	}
}

// ensureSessionID reads the session id cookie, minting one on first contact.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(sessionIDCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sid := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionIDCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

// redirectUnauthorized sends the browser to the login page carrying the
// notice code that explains the bounce.
func (s *Server) redirectUnauthorized(w http.ResponseWriter, r *http.Request, notice string) {
	target := session.LandingRoute + "?notice=" + url.QueryEscape(notice)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// forceLogout is the single exit used when the backend rejects the token
// mid-page: vault cleared, state reset, browser sent to the landing route
// with an explanation. After it returns the response is complete.
func (s *Server) forceLogout(w http.ResponseWriter, r *http.Request, notice string) {
	rs, ok := SessionFrom(r.Context())
	if ok {
		s.sessions.Logout(rs.ID)
	}
	s.vault.Clear(w, r)
	s.redirectUnauthorized(w, r, notice)
}
