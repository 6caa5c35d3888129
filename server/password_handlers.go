package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// ForgotPasswordPageData contains data for rendering the forgot-password page
type ForgotPasswordPageData struct {
	Layout
	Email string
	Sent  bool
}

// ForgotPasswordPageHandler displays the forgot-password form
// (GET /auth/forgot-password)
func (s *Server) ForgotPasswordPageHandler() http.HandlerFunc {
	forgotTmpl, err := ParsePage("forgot_password.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse forgot-password template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := ForgotPasswordPageData{
			Layout: s.layout(r, "Forgot password", "forgot-password"),
			Email:  r.URL.Query().Get("email"),
			Sent:   r.URL.Query().Get("sent") == "1",
		}
		s.renderPage(w, forgotTmpl, data)
	}
}

// ForgotPasswordSubmissionHandler asks the backend to start a reset
// (POST /auth/forgot-password). The response is the same whether or not
// the address exists, so the form cannot be used to probe for accounts.
func (s *Server) ForgotPasswordSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := forgotPasswordForm{Email: strings.TrimSpace(r.FormValue("email"))}
		if err := s.validate.Struct(form); err != nil {
			s.redirectWithError(w, r, RouteForgotPassword, validationMessage(err), form.Email)
			return
		}

		if err := s.client.ForgotPassword(r.Context(), form.Email); err != nil {
			log.Err(err).Msg("Forgot-password call to backend failed")
		}
		http.Redirect(w, r, RouteForgotPassword+"?sent=1", http.StatusSeeOther)
	}
}

// ResetPasswordPageData contains data for rendering the reset-password page
type ResetPasswordPageData struct {
	Layout
	Email string
	Token string
}

// ResetPasswordPageHandler displays the reset form reached from the emailed
// link (GET /auth/reset-password?email=...&token=...)
func (s *Server) ResetPasswordPageHandler() http.HandlerFunc {
	resetTmpl, err := ParsePage("reset_password.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse reset-password template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		data := ResetPasswordPageData{
			Layout: s.layout(r, "Reset password", "reset-password"),
			Email:  query.Get("email"),
			Token:  query.Get("token"),
		}
		s.renderPage(w, resetTmpl, data)
	}
}

// ResetPasswordSubmissionHandler completes the reset with the emailed token
// (POST /auth/reset-password).
func (s *Server) ResetPasswordSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := resetPasswordForm{
			Email:       strings.TrimSpace(r.FormValue("email")),
			Token:       r.FormValue("token"),
			NewPassword: r.FormValue("new_password"),
		}
		if err := s.validate.Struct(form); err != nil {
			target := RouteResetPassword + "?email=" + url.QueryEscape(form.Email) +
				"&token=" + url.QueryEscape(form.Token) +
				"&error=" + url.QueryEscape(validationMessage(err))
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		if err := s.client.ResetPassword(r.Context(), form.Email, form.Token, form.NewPassword); err != nil {
			log.Err(err).Msg("Reset-password call to backend failed")
			target := RouteResetPassword + "?email=" + url.QueryEscape(form.Email) +
				"&token=" + url.QueryEscape(form.Token) +
				"&error=" + url.QueryEscape("Could not reset the password. The link may have expired.")
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, RouteLogin+"?email="+url.QueryEscape(form.Email), http.StatusSeeOther)
	}
}
