package backend

import (
	"context"
	"net/http"
	"net/url"
)

// Jobs lists postings, optionally narrowed by filter.
func (c *Client) Jobs(ctx context.Context, tok string, filter JobFilter) ([]Job, error) {
	path := "/jobs"
	query := url.Values{}
	if filter.Query != "" {
		query.Set("q", filter.Query)
	}
	if filter.Location != "" {
		query.Set("location", filter.Location)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var jobs []Job
	if err := c.do(ctx, http.MethodGet, path, tok, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Job fetches a single posting.
func (c *Client) Job(ctx context.Context, tok string, id int64) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, idPath("/jobs/%d", id), tok, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob publishes a new posting for the calling employer.
func (c *Client) CreateJob(ctx context.Context, tok string, draft JobDraft) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPost, "/jobs", tok, draft, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob replaces an existing posting's fields.
func (c *Client) UpdateJob(ctx context.Context, tok string, id int64, draft JobDraft) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPut, idPath("/jobs/%d", id), tok, draft, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob removes a posting.
func (c *Client) DeleteJob(ctx context.Context, tok string, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/jobs/%d", id), tok, nil, nil)
}
