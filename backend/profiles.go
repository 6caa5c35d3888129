package backend

import (
	"context"
	"net/http"
)

// Company fetches an employer profile.
func (c *Client) Company(ctx context.Context, tok string, id int64) (*Company, error) {
	var company Company
	if err := c.do(ctx, http.MethodGet, idPath("/companies/%d", id), tok, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// CompanyForUser fetches the company an employer account owns.
func (c *Client) CompanyForUser(ctx context.Context, tok string, userID int64) (*Company, error) {
	var company Company
	if err := c.do(ctx, http.MethodGet, idPath("/users/%d/company", userID), tok, nil, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// UpdateCompany saves an employer profile.
func (c *Client) UpdateCompany(ctx context.Context, tok string, company Company) error {
	return c.do(ctx, http.MethodPut, idPath("/companies/%d", company.ID), tok, company, nil)
}

// Candidate fetches a candidate profile.
func (c *Client) Candidate(ctx context.Context, tok string, userID int64) (*Candidate, error) {
	var candidate Candidate
	if err := c.do(ctx, http.MethodGet, idPath("/candidates/%d", userID), tok, nil, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// UpdateCandidate saves a candidate profile.
func (c *Client) UpdateCandidate(ctx context.Context, tok string, candidate Candidate) error {
	return c.do(ctx, http.MethodPut, idPath("/candidates/%d", candidate.UserID), tok, candidate, nil)
}
