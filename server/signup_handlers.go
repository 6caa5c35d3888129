package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

// SignupPageData contains data for rendering the signup page
type SignupPageData struct {
	Layout
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// SignupPageHandler displays the registration page (GET /auth/signup)
func (s *Server) SignupPageHandler() http.HandlerFunc {
	signupTmpl, err := ParsePage("signup.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse signup template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if rs, ok := SessionFrom(r.Context()); ok && rs.LoggedIn {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}

		query := r.URL.Query()
		data := SignupPageData{
			Layout:    s.layout(r, "Create an account", "signup"),
			Email:     query.Get("email"),
			FirstName: query.Get("first_name"),
			LastName:  query.Get("last_name"),
			Role:      query.Get("role"),
		}
		s.renderPage(w, signupTmpl, data)
	}
}

// SignupSubmissionHandler processes the registration form
// (POST /auth/signup). Registration happens backend-side; on success the
// browser is sent to the login page to obtain its token.
func (s *Server) SignupSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := signupForm{
			Email:     strings.TrimSpace(r.FormValue("email")),
			Password:  r.FormValue("password"),
			FirstName: strings.TrimSpace(r.FormValue("first_name")),
			LastName:  strings.TrimSpace(r.FormValue("last_name")),
			Role:      r.FormValue("role"),
		}
		if err := s.validate.Struct(form); err != nil {
			s.redirectWithError(w, r, RouteSignup, validationMessage(err), form.Email)
			return
		}

		req := backend.RegisterRequest{
			Email:     form.Email,
			Password:  form.Password,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Role:      backend.Role(form.Role),
		}
		if err := s.client.Register(r.Context(), req); err != nil {
			log.Err(err).Msg("Registration call to backend failed")
			s.redirectWithError(w, r, RouteSignup, "Could not create the account. Please try again.", form.Email)
			return
		}

		http.Redirect(w, r, RouteLogin+"?email="+url.QueryEscape(form.Email), http.StatusSeeOther)
	}
}
