package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// Login exchanges credentials for tokens. The access token is kept on the
// client for subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (models.AuthTokens, error) {
	var tokens models.AuthTokens
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, req, &tokens); err != nil {
		return models.AuthTokens{}, fmt.Errorf("failed to login: %w", err)
	}
	if tokens.AccessToken == "" {
		return models.AuthTokens{}, fmt.Errorf("failed to login: empty access token")
	}
	c.token = tokens.AccessToken
	return tokens, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	c.token = ""
	return nil
}
