package api

import (
	"context"
	"net/http"
)

type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var out LoginResult
	if err := c.do(ctx, http.MethodPost, LoginPath, body, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/logout", nil, nil)
}
