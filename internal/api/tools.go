package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oneee-playground/crackdash/internal/tool"
)

var _ tool.Fetcher = (*Client)(nil)

func (c *Client) ListTools(ctx context.Context) ([]tool.Tool, error) {
	var out struct {
		Tools []tool.Tool `json:"tools"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tools", nil, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

func (c *Client) GetTool(ctx context.Context, id string) (tool.Tool, error) {
	var out struct {
		Tool tool.Tool `json:"tool"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tools/"+url.PathEscape(id), nil, &out); err != nil {
		return tool.Tool{}, err
	}
	return out.Tool, nil
}
