package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

// JobListPageData contains data for rendering the job listing page
type JobListPageData struct {
	Layout
	Jobs     []backend.Job
	Query    string
	Location string
}

// JobListHandler displays the job listing with optional search filters
// (GET /jobs?q=...&location=...)
func (s *Server) JobListHandler() http.HandlerFunc {
	listTmpl, err := ParsePage("jobs.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse job list template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rs, _ := SessionFrom(r.Context())

		filter := backend.JobFilter{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Location: strings.TrimSpace(r.URL.Query().Get("location")),
		}
		jobs, err := s.client.Jobs(r.Context(), rs.Token, filter)
		if err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}

		data := JobListPageData{
			Layout:   s.layout(r, "Jobs", "jobs"),
			Jobs:     jobs,
			Query:    filter.Query,
			Location: filter.Location,
		}
		s.renderPage(w, listTmpl, data)
	}
}

// JobDetailPageData contains data for rendering a single posting
type JobDetailPageData struct {
	Layout
	Job          backend.Job
	IsOwner      bool
	HasApplied   bool
	JustApplied  bool
	Applications []backend.Application // Owner view only
	Statuses     []string
}

// applicationStatuses is the employer's pipeline, in order.
var applicationStatuses = []string{"submitted", "review", "interview", "rejected", "hired"}

// JobDetailHandler displays a posting (GET /jobs/{id}). Candidates see the
// apply form; the posting's owner sees the received applications with the
// status controls instead.
func (s *Server) JobDetailHandler() http.HandlerFunc {
	detailTmpl, err := ParsePage("job_detail.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse job detail template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		rs, _ := SessionFrom(r.Context())

		job, err := s.client.Job(r.Context(), rs.Token, id)
		if err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}

		data := JobDetailPageData{
			Layout:      s.layout(r, job.Title, "jobs"),
			Job:         *job,
			Statuses:    applicationStatuses,
			JustApplied: r.URL.Query().Get("applied") == "1",
		}

		if rs.User != nil && job.PostedBy == rs.User.ID {
			data.IsOwner = true
			apps, err := s.client.ApplicationsForJob(r.Context(), rs.Token, id)
			if err != nil {
				s.backendErrorResponse(w, r, err)
				return
			}
			data.Applications = apps
		} else if rs.User != nil {
			apps, err := s.client.ApplicationsForUser(r.Context(), rs.Token, rs.User.ID)
			if err == nil {
				for _, app := range apps {
					if app.JobID == id {
						data.HasApplied = true
						break
					}
				}
			}
		}

		s.renderPage(w, detailTmpl, data)
	}
}

// JobApplyHandler submits an application (POST /jobs/{id}/apply).
func (s *Server) JobApplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		rs, _ := SessionFrom(r.Context())
		jobPath := fmt.Sprintf("/jobs/%d", id)

		form := applyForm{CoverLetter: strings.TrimSpace(r.FormValue("cover_letter"))}
		if err := s.validate.Struct(form); err != nil {
			s.redirectWithError(w, r, jobPath, validationMessage(err), "")
			return
		}

		if _, err := s.client.Apply(r.Context(), rs.Token, id, form.CoverLetter); err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}
		http.Redirect(w, r, jobPath+"?applied=1", http.StatusSeeOther)
	}
}

// JobWizardPageData contains data for rendering a step of the posting wizard
type JobWizardPageData struct {
	Layout
	Step  int
	Draft backend.JobDraft
}

// JobWizardHandler walks an employer through creating a posting in three
// steps: basics, details, review (GET+POST /jobs/new). The wizard is
// stateless - completed steps travel forward as hidden fields - so an
// abandoned draft costs nothing server-side.
func (s *Server) JobWizardHandler() http.HandlerFunc {
	wizardTmpl, err := ParsePage("job_wizard.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse job wizard template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rs, done := s.requireEmployer(w, r)
		if done {
			return
		}

		if r.Method == http.MethodGet {
			data := JobWizardPageData{
				Layout: s.layout(r, "Post a job", "jobs"),
				Step:   1,
			}
			s.renderPage(w, wizardTmpl, data)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		draft := draftFromForm(r)
		switch r.FormValue("step") {
		case "1":
			s.wizardAdvance(w, r, wizardTmpl, draft, 2, jobBasicsForm{
				Title:          draft.Title,
				Location:       draft.Location,
				EmploymentType: draft.EmploymentType,
			})
		case "2":
			s.wizardAdvance(w, r, wizardTmpl, draft, 3, jobDetailsForm{
				SalaryRange:  draft.SalaryRange,
				Description:  draft.Description,
				Requirements: draft.Requirements,
			})
		case "3":
			job, err := s.client.CreateJob(r.Context(), rs.Token, draft)
			if err != nil {
				s.backendErrorResponse(w, r, err)
				return
			}
			http.Redirect(w, r, fmt.Sprintf("/jobs/%d", job.ID), http.StatusSeeOther)
		default:
			http.Error(w, "Invalid form data", http.StatusBadRequest)
		}
	}
}

// wizardAdvance validates the just-submitted step and renders the next one,
// or re-renders the same step with the validation error.
func (s *Server) wizardAdvance(w http.ResponseWriter, r *http.Request, tmpl *template.Template, draft backend.JobDraft, nextStep int, form any) {
	data := JobWizardPageData{
		Layout: s.layout(r, "Post a job", "jobs"),
		Step:   nextStep,
		Draft:  draft,
	}
	if err := s.validate.Struct(form); err != nil {
		data.Step = nextStep - 1
		data.Error = validationMessage(err)
	}
	s.renderPage(w, tmpl, data)
}

// JobEditPageData contains data for rendering the edit form
type JobEditPageData struct {
	Layout
	JobID int64
	Draft backend.JobDraft
}

// JobEditPageHandler displays the edit form for a posting the caller owns
// (GET /jobs/{id}/edit)
func (s *Server) JobEditPageHandler() http.HandlerFunc {
	editTmpl, err := ParsePage("job_edit.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse job edit template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		job, _, done := s.requireOwnedJob(w, r)
		if done {
			return
		}

		data := JobEditPageData{
			Layout: s.layout(r, "Edit posting", "jobs"),
			JobID:  job.ID,
			Draft: backend.JobDraft{
				Title:          job.Title,
				Location:       job.Location,
				EmploymentType: job.EmploymentType,
				SalaryRange:    job.SalaryRange,
				Description:    job.Description,
				Requirements:   job.Requirements,
			},
		}
		s.renderPage(w, editTmpl, data)
	}
}

// JobEditSubmissionHandler saves an edited posting (POST /jobs/{id}/edit).
func (s *Server) JobEditSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, rs, done := s.requireOwnedJob(w, r)
		if done {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		draft := draftFromForm(r)
		editPath := fmt.Sprintf("/jobs/%d/edit", job.ID)

		basics := jobBasicsForm{Title: draft.Title, Location: draft.Location, EmploymentType: draft.EmploymentType}
		if err := s.validate.Struct(basics); err != nil {
			s.redirectWithError(w, r, editPath, validationMessage(err), "")
			return
		}
		details := jobDetailsForm{SalaryRange: draft.SalaryRange, Description: draft.Description, Requirements: draft.Requirements}
		if err := s.validate.Struct(details); err != nil {
			s.redirectWithError(w, r, editPath, validationMessage(err), "")
			return
		}

		if _, err := s.client.UpdateJob(r.Context(), rs.Token, job.ID, draft); err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/jobs/%d", job.ID), http.StatusSeeOther)
	}
}

// JobDeleteHandler removes a posting the caller owns (POST /jobs/{id}/delete).
func (s *Server) JobDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, rs, done := s.requireOwnedJob(w, r)
		if done {
			return
		}

		if err := s.client.DeleteJob(r.Context(), rs.Token, job.ID); err != nil {
			s.backendErrorResponse(w, r, err)
			return
		}
		http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
	}
}

// ApplicationStatusHandler moves an application through the pipeline
// (POST /applications/{id}). Ownership is the backend's call here - it
// knows which posting the application belongs to.
func (s *Server) ApplicationStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		rs, _ := SessionFrom(r.Context())

		status := r.FormValue("status")
		if !validStatus(status) {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		if err := s.client.SetApplicationStatus(r.Context(), rs.Token, id, status); err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				// Not the caller's application (or gone): treat as an
				// authorization bounce, not a bare 404.
				s.redirectUnauthorized(w, r, NoticeNotAuthorized)
				return
			}
			s.backendErrorResponse(w, r, err)
			return
		}

		back := r.FormValue("return")
		if back == "" || !strings.HasPrefix(back, "/") {
			back = RouteDashboard
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

// requireEmployer bounces non-employer sessions off employer-only pages.
// An unconfirmed role is resolved synchronously first - a legitimate
// employer arriving on a fresh session must never be told they are not
// authorized just because the background verification has not landed yet.
// done is true when the response has been written.
func (s *Server) requireEmployer(w http.ResponseWriter, r *http.Request) (RequestSession, bool) {
	rs, ok := SessionFrom(r.Context())
	if !ok || rs.User == nil {
		s.redirectUnauthorized(w, r, NoticeSigninRequired)
		return rs, true
	}

	user, done := s.resolveUserRole(w, r, rs)
	if done {
		return rs, true
	}
	if user.Role != backend.RoleEmployer {
		s.redirectUnauthorized(w, r, NoticeNotAuthorized)
		return rs, true
	}

	rs.User = user
	return rs, false
}

// requireOwnedJob loads the {id} posting and checks the caller owns it.
// A posting owned by someone else is an authorization bounce with a visible
// notice, never a silent redirect or a partial render.
func (s *Server) requireOwnedJob(w http.ResponseWriter, r *http.Request) (*backend.Job, RequestSession, bool) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		return nil, RequestSession{}, true
	}

	rs, done := s.requireEmployer(w, r)
	if done {
		return nil, rs, true
	}

	job, err := s.client.Job(r.Context(), rs.Token, id)
	if err != nil {
		s.backendErrorResponse(w, r, err)
		return nil, rs, true
	}
	if job.PostedBy != rs.User.ID {
		s.redirectUnauthorized(w, r, NoticeNotAuthorized)
		return nil, rs, true
	}
	return job, rs, false
}

func draftFromForm(r *http.Request) backend.JobDraft {
	return backend.JobDraft{
		Title:          strings.TrimSpace(r.FormValue("title")),
		Location:       strings.TrimSpace(r.FormValue("location")),
		EmploymentType: r.FormValue("employment_type"),
		SalaryRange:    strings.TrimSpace(r.FormValue("salary_range")),
		Description:    strings.TrimSpace(r.FormValue("description")),
		Requirements:   strings.TrimSpace(r.FormValue("requirements")),
	}
}

func validStatus(status string) bool {
	for _, s := range applicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}
