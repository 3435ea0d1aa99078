package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oneee-playground/crackdash/internal/job"
)

var _ job.Client = (*Client)(nil)
var _ job.Fetcher = (*Client)(nil)

func jobPath(id string) string {
	return "/api/jobs/" + url.PathEscape(id)
}

func (c *Client) ListJobs(ctx context.Context) ([]job.Job, error) {
	var out struct {
		Jobs []job.Job `json:"jobs"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id string) (job.Detail, error) {
	var out struct {
		Job job.Detail `json:"job"`
	}
	if err := c.do(ctx, http.MethodGet, jobPath(id), nil, &out); err != nil {
		return job.Detail{}, err
	}
	return out.Job, nil
}

type createJobRequest struct {
	ToolID string            `json:"toolid"`
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
}

func (c *Client) CreateJob(ctx context.Context, name, toolID string, params map[string]string) (string, error) {
	var out struct {
		JobID string `json:"jobid"`
	}

	body := createJobRequest{ToolID: toolID, Name: name, Params: params}
	if err := c.do(ctx, http.MethodPost, "/api/jobs", body, &out); err != nil {
		return "", err
	}
	return out.JobID, nil
}

// UpdateJob sends the whole job and returns the server's view of it.
func (c *Client) UpdateJob(ctx context.Context, j job.Job) (job.Job, error) {
	var out struct {
		Job job.Job `json:"job"`
	}
	if err := c.do(ctx, http.MethodPut, jobPath(j.ID), j, &out); err != nil {
		return job.Job{}, err
	}
	return out.Job, nil
}

// JobAction asks the server to move the job to another state.
func (c *Client) JobAction(ctx context.Context, id string, action job.Action) (job.Job, error) {
	var out struct {
		Job job.Job `json:"job"`
	}

	body := map[string]string{"id": id, "status": string(action)}
	if err := c.do(ctx, http.MethodPut, jobPath(id), body, &out); err != nil {
		return job.Job{}, err
	}
	return out.Job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, jobPath(id), nil, nil)
}

// ReorderQueue replaces the queue order. order must hold every job ID.
func (c *Client) ReorderQueue(ctx context.Context, order []string) error {
	body := struct {
		JobOrder []string `json:"joborder"`
	}{JobOrder: order}

	return c.do(ctx, http.MethodPut, "/api/queue", body, nil)
}
