package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
	"github.com/jobvine/jobvine-web/internal/utils"
)

// CandidateSettingsData contains data for rendering candidate settings
type CandidateSettingsData struct {
	Layout
	Profile backend.Candidate
	Skills  string
	Saved   bool
}

// CompanySettingsData contains data for rendering employer settings
type CompanySettingsData struct {
	Layout
	Company backend.Company
	Saved   bool
}

// SettingsPageHandler displays the role-appropriate profile settings
// (GET /settings). A profile the backend has no record of yet renders as
// an empty form, not an error.
func (s *Server) SettingsPageHandler() http.HandlerFunc {
	candidateTmpl, err := ParsePage("settings_candidate.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse candidate settings template")
	}
	companyTmpl, err := ParsePage("settings_company.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse company settings template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rs, ok := SessionFrom(r.Context())
		if !ok || rs.User == nil {
			s.redirectUnauthorized(w, r, NoticeSigninRequired)
			return
		}
		user, done := s.resolveUserRole(w, r, rs)
		if done {
			return
		}
		rs.User = user
		saved := r.URL.Query().Get("saved") == "1"

		if user.Role == backend.RoleEmployer {
			company, err := s.client.CompanyForUser(r.Context(), rs.Token, rs.User.ID)
			if err != nil && !errors.Is(err, backend.ErrNotFound) {
				s.backendErrorResponse(w, r, err)
				return
			}
			data := CompanySettingsData{
				Layout:  s.layout(r, "Settings", "settings"),
				Company: utils.Value(company),
				Saved:   saved,
			}
			s.renderPage(w, companyTmpl, data)
			return
		}

		profile, err := s.client.Candidate(r.Context(), rs.Token, rs.User.ID)
		if err != nil && !errors.Is(err, backend.ErrNotFound) {
			s.backendErrorResponse(w, r, err)
			return
		}
		data := CandidateSettingsData{
			Layout:  s.layout(r, "Settings", "settings"),
			Profile: utils.Value(profile),
			Skills:  strings.Join(utils.Value(profile).Skills, ", "),
			Saved:   saved,
		}
		s.renderPage(w, candidateTmpl, data)
	}
}

// SettingsSubmissionHandler saves the role-appropriate profile
// (POST /settings).
func (s *Server) SettingsSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, ok := SessionFrom(r.Context())
		if !ok || rs.User == nil {
			s.redirectUnauthorized(w, r, NoticeSigninRequired)
			return
		}
		user, done := s.resolveUserRole(w, r, rs)
		if done {
			return
		}
		rs.User = user
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		if user.Role == backend.RoleEmployer {
			s.saveCompanySettings(w, r, rs)
			return
		}
		s.saveCandidateSettings(w, r, rs)
	}
}

func (s *Server) saveCandidateSettings(w http.ResponseWriter, r *http.Request, rs RequestSession) {
	form := candidateSettingsForm{
		Headline:  strings.TrimSpace(r.FormValue("headline")),
		Skills:    strings.TrimSpace(r.FormValue("skills")),
		ResumeURL: strings.TrimSpace(r.FormValue("resume_url")),
		About:     strings.TrimSpace(r.FormValue("about")),
	}
	if err := s.validate.Struct(form); err != nil {
		s.redirectWithError(w, r, RouteSettings, validationMessage(err), "")
		return
	}

	profile := backend.Candidate{
		UserID:    rs.User.ID,
		Headline:  form.Headline,
		Skills:    splitSkills(form.Skills),
		ResumeURL: form.ResumeURL,
		About:     form.About,
	}
	if err := s.client.UpdateCandidate(r.Context(), rs.Token, profile); err != nil {
		s.backendErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, RouteSettings+"?saved=1", http.StatusSeeOther)
}

func (s *Server) saveCompanySettings(w http.ResponseWriter, r *http.Request, rs RequestSession) {
	form := companySettingsForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Website: strings.TrimSpace(r.FormValue("website")),
		About:   strings.TrimSpace(r.FormValue("about")),
	}
	if err := s.validate.Struct(form); err != nil {
		s.redirectWithError(w, r, RouteSettings, validationMessage(err), "")
		return
	}

	// The backend keys the company by its own id; resolve it first so an
	// update never creates a second company for the same owner.
	var companyID int64
	if existing, err := s.client.CompanyForUser(r.Context(), rs.Token, rs.User.ID); err == nil {
		companyID = existing.ID
	} else if !errors.Is(err, backend.ErrNotFound) {
		s.backendErrorResponse(w, r, err)
		return
	}

	company := backend.Company{
		ID:      companyID,
		Name:    form.Name,
		Website: form.Website,
		About:   form.About,
		OwnerID: rs.User.ID,
	}
	if err := s.client.UpdateCompany(r.Context(), rs.Token, company); err != nil {
		s.backendErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, RouteSettings+"?saved=1", http.StatusSeeOther)
}

// splitSkills turns the comma-separated skills field into a clean slice.
func splitSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}
