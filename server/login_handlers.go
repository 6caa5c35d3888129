package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

// tokenCookieMaxAge bounds the sealed token cookie's lifetime. The token
// inside usually expires sooner; a stale cookie is cleaned up on the next
// session initialization.
const tokenCookieMaxAge = 30 * 24 * 60 * 60

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Layout
	Email string // Preserve email on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl, err := ParsePage("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if rs, ok := SessionFrom(r.Context()); ok && rs.LoggedIn {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}

		data := LoginPageData{
			Layout: s.layout(r, "Log in", "login"),
			Email:  r.URL.Query().Get("email"),
		}
		s.renderPage(w, loginTmpl, data)
	}
}

// LoginSubmissionHandler processes the login form (POST /auth/login).
// On success the vault write and the session-state update happen in the
// same response, so storage and memory never disagree about being logged
// in for longer than this one handler.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := loginForm{
			Email:    strings.TrimSpace(r.FormValue("email")),
			Password: r.FormValue("password"),
		}
		if err := s.validate.Struct(form); err != nil {
			s.redirectWithError(w, r, RouteLogin, validationMessage(err), form.Email)
			return
		}

		rawToken, err := s.client.Login(r.Context(), form.Email, form.Password)
		if err != nil {
			if errors.Is(err, backend.ErrUnauthorized) {
				s.redirectWithError(w, r, RouteLogin, "Invalid email or password", form.Email)
				return
			}
			log.Err(err).Msg("Login call to backend failed")
			s.redirectWithError(w, r, RouteLogin, "Login is temporarily unavailable. Please try again.", form.Email)
			return
		}

		rs, ok := SessionFrom(r.Context())
		if !ok {
			http.Error(w, "Session not resolved", http.StatusInternalServerError)
			return
		}

		if _, err := s.sessions.Login(rs.ID, rawToken); err != nil {
			log.Err(err).Msg("Backend issued a token this client cannot decode")
			s.redirectWithError(w, r, RouteLogin, "Login failed. Please try again.", form.Email)
			return
		}

		if err := s.vault.Set(w, r, rawToken, tokenCookieMaxAge); err != nil {
			// Keep storage and memory consistent: no cookie, no session.
			s.sessions.Logout(rs.ID)
			log.Err(err).Msg("Failed to store token cookie")
			s.redirectWithError(w, r, RouteLogin, "Login failed. Please try again.", form.Email)
			return
		}

		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// LogoutHandler clears the vault and the session state, then performs a
// full navigation to the landing route. After this response no page treats
// the session as authenticated.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		landing := "/login"
		if rs, ok := SessionFrom(r.Context()); ok {
			landing = s.sessions.Logout(rs.ID)
		}
		s.vault.Clear(w, r)
		http.Redirect(w, r, landing+"?notice="+NoticeSignedOut, http.StatusSeeOther)
	}
}
