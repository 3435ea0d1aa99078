package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oneee-playground/crackdash/internal/resource"
)

var _ resource.Lister = (*Client)(nil)

func resourcePath(id string) string {
	return "/api/resources/" + url.PathEscape(id)
}

func (c *Client) ListResources(ctx context.Context) ([]resource.Resource, error) {
	var out struct {
		Resources []resource.Resource `json:"resources"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/resources", nil, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

func (c *Client) GetResource(ctx context.Context, id string) (resource.Resource, error) {
	var out struct {
		Resource resource.Resource `json:"resource"`
	}
	if err := c.do(ctx, http.MethodGet, resourcePath(id), nil, &out); err != nil {
		return resource.Resource{}, err
	}
	return out.Resource, nil
}

// CreateResource asks a resource manager to connect a new resource.
func (c *Client) CreateResource(ctx context.Context, manager string, params map[string]string) error {
	body := struct {
		Manager string            `json:"manager"`
		Params  map[string]string `json:"params"`
	}{Manager: manager, Params: params}

	return c.do(ctx, http.MethodPost, "/api/resources", body, nil)
}

// UpdateResource changes a resource's status, pausing or resuming it.
func (c *Client) UpdateResource(ctx context.Context, id string, status resource.Status) error {
	body := struct {
		Status resource.Status `json:"status"`
	}{Status: status}

	return c.do(ctx, http.MethodPut, resourcePath(id), body, nil)
}

func (c *Client) DeleteResource(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, resourcePath(id), nil, nil)
}

func (c *Client) ListResourceManagers(ctx context.Context) ([]resource.Manager, error) {
	var out struct {
		Managers []resource.Manager `json:"resourcemanagers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/resourcemanagers", nil, &out); err != nil {
		return nil, err
	}
	return out.Managers, nil
}

func (c *Client) GetResourceManager(ctx context.Context, id string) (resource.Manager, error) {
	var out struct {
		Manager resource.Manager `json:"resourcemanager"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/resourcemanagers/"+url.PathEscape(id), nil, &out); err != nil {
		return resource.Manager{}, err
	}
	return out.Manager, nil
}
