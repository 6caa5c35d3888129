package backend

import (
	"context"
	"net/http"
)

type applyRequest struct {
	JobID       int64  `json:"job_id"`
	CoverLetter string `json:"cover_letter"`
}

type applicationStatusRequest struct {
	Status string `json:"status"`
}

// ApplicationsForUser lists the applications a candidate has submitted.
func (c *Client) ApplicationsForUser(ctx context.Context, tok string, userID int64) ([]Application, error) {
	var apps []Application
	if err := c.do(ctx, http.MethodGet, idPath("/users/%d/applications", userID), tok, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// ApplicationsForJob lists the applications received on a posting.
func (c *Client) ApplicationsForJob(ctx context.Context, tok string, jobID int64) ([]Application, error) {
	var apps []Application
	if err := c.do(ctx, http.MethodGet, idPath("/jobs/%d/applications", jobID), tok, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Apply submits an application to a posting.
func (c *Client) Apply(ctx context.Context, tok string, jobID int64, coverLetter string) (*Application, error) {
	var app Application
	req := applyRequest{JobID: jobID, CoverLetter: coverLetter}
	if err := c.do(ctx, http.MethodPost, "/applications", tok, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// SetApplicationStatus moves an application through the employer's pipeline
// (e.g. "review", "interview", "rejected", "hired").
func (c *Client) SetApplicationStatus(ctx context.Context, tok string, applicationID int64, status string) error {
	req := applicationStatusRequest{Status: status}
	return c.do(ctx, http.MethodPatch, idPath("/applications/%d", applicationID), tok, req, nil)
}
