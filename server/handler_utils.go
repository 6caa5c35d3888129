package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

const contentTypeHTML = "text/html; charset=utf-8"

// renderPage executes a parsed page template through the shared layout.
func (s *Server) renderPage(w http.ResponseWriter, tmpl *template.Template, data any) {
	if tmpl == nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// redirectWithError bounces back to path with an error banner, preserving
// the typed email where the form has one.
func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg, email string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		fullPath += "&email=" + url.QueryEscape(email)
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// backendErrorResponse is the one exit for failed backend calls inside
// protected pages. A 401 means the token died mid-visit: same forced-logout
// path the background verifier uses, with the session-expired notice. A 404
// stays a 404. Everything else is the backend being unavailable - logged,
// and answered with a plain 502 rather than a broken page.
func (s *Server) backendErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		s.forceLogout(w, r, NoticeSessionExpired)
	case errors.Is(err, backend.ErrNotFound):
		http.Error(w, "404 - Page Not Found", http.StatusNotFound)
	default:
		log.Err(err).Str("path", r.URL.Path).Msg("Backend call failed")
		http.Error(w, "The job board is temporarily unavailable. Please try again.", http.StatusBadGateway)
	}
}

// resolveUserRole returns the user with an authoritative role, verifying
// synchronously when the session only holds locally decoded claims - the
// token carries no role, so the first role-dependent page after a fresh
// session (new browser, server restart) must not guess. done is true when
// the response has already been written (revoked token or unreachable
// backend).
func (s *Server) resolveUserRole(w http.ResponseWriter, r *http.Request, rs RequestSession) (*backend.User, bool) {
	if rs.User.Role != "" {
		return rs.User, false
	}

	s.sessions.VerifyNow(r.Context(), rs.ID, rs.Generation, rs.Token)

	sess, err := s.sessions.Get(rs.ID)
	if err != nil || !sess.LoggedIn {
		s.forceLogout(w, r, NoticeSessionExpired)
		return nil, true
	}
	if sess.User == nil || sess.User.Role == "" {
		// Verification failed open; without a role there is no view to
		// pick, so this page alone degrades.
		http.Error(w, "The job board is temporarily unavailable. Please try again.", http.StatusBadGateway)
		return nil, true
	}
	return sess.User, false
}

// pathID parses the {id} route parameter. ok is false when the parameter
// is missing or not numeric - callers treat that as unauthorized for the
// route, not as a crash.
func pathID(r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
