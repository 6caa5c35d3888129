package server

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

// CandidateDashboardData contains data for rendering the candidate dashboard
type CandidateDashboardData struct {
	Layout
	Applications []backend.Application
	RecentJobs   []backend.Job
}

// EmployerDashboardData contains data for rendering the employer dashboard
type EmployerDashboardData struct {
	Layout
	Jobs         []backend.Job
	Applications []backend.Application
}

// dashboardListLimit caps the secondary lists on a dashboard.
const dashboardListLimit = 5

// DashboardHandler renders the role-appropriate dashboard (GET /dashboard).
// The token's claims carry no role, so a session that has not yet been
// confirmed by the backend resolves it here with one blocking verification
// before the first dashboard render.
func (s *Server) DashboardHandler() http.HandlerFunc {
	candidateTmpl, err := ParsePage("dashboard_candidate.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse candidate dashboard template")
	}
	employerTmpl, err := ParsePage("dashboard_employer.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse employer dashboard template")
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

		if user.Role == backend.RoleEmployer {
			s.renderEmployerDashboard(w, r, employerTmpl, rs, user)
			return
		}
		s.renderCandidateDashboard(w, r, candidateTmpl, rs, user)
	}
}

func (s *Server) renderCandidateDashboard(w http.ResponseWriter, r *http.Request, tmpl *template.Template, rs RequestSession, user *backend.User) {
	apps, err := s.client.ApplicationsForUser(r.Context(), rs.Token, user.ID)
	if err != nil {
		s.backendErrorResponse(w, r, err)
		return
	}

	// Openings the candidate has not applied to yet, newest first; a
	// failure here costs the suggestion strip, not the page.
	var recent []backend.Job
	if jobs, err := s.client.Jobs(r.Context(), rs.Token, backend.JobFilter{}); err == nil {
		applied := make(map[int64]bool, len(apps))
		for _, app := range apps {
			applied[app.JobID] = true
		}
		for _, job := range jobs {
			if applied[job.ID] {
				continue
			}
			recent = append(recent, job)
			if len(recent) == dashboardListLimit {
				break
			}
		}
	} else {
		log.Warn().Err(err).Msg("Failed to load recent jobs for dashboard")
	}

	data := CandidateDashboardData{
		Layout:       s.layout(r, "Dashboard", "dashboard"),
		Applications: apps,
		RecentJobs:   recent,
	}
	s.renderPage(w, tmpl, data)
}

func (s *Server) renderEmployerDashboard(w http.ResponseWriter, r *http.Request, tmpl *template.Template, rs RequestSession, user *backend.User) {
	all, err := s.client.Jobs(r.Context(), rs.Token, backend.JobFilter{})
	if err != nil {
		s.backendErrorResponse(w, r, err)
		return
	}

	var mine []backend.Job
	for _, job := range all {
		if job.PostedBy == user.ID {
			mine = append(mine, job)
		}
	}

	// Most recent incoming applications across the employer's postings; a
	// failure on one posting skips it rather than failing the page.
	var incoming []backend.Application
	for _, job := range mine {
		if len(incoming) >= dashboardListLimit {
			break
		}
		apps, err := s.client.ApplicationsForJob(r.Context(), rs.Token, job.ID)
		if err != nil {
			log.Warn().Err(err).Int64("job_id", job.ID).Msg("Failed to load applications for dashboard")
			continue
		}
		incoming = append(incoming, apps...)
	}
	if len(incoming) > dashboardListLimit {
		incoming = incoming[:dashboardListLimit]
	}

	data := EmployerDashboardData{
		Layout:       s.layout(r, "Dashboard", "dashboard"),
		Jobs:         mine,
		Applications: incoming,
	}
	s.renderPage(w, tmpl, data)
}
