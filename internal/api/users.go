package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Cloudsky01/storeadmin/pkg/models"
)

// ListUsers accepts username, fullName, email, phone, roleId and status
func (c *Client) ListUsers(ctx context.Context, q Query) (models.Page[models.User], error) {
	var page models.Page[models.User]
	if err := c.do(ctx, http.MethodGet, "/api/v1/users", q.Values(), nil, &page); err != nil {
		return page, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, idPath("/api/v1/users/%d", id), nil, nil, &u); err != nil {
		return u, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return u, nil
}

func (c *Client) CreateUser(ctx context.Context, req models.UserRequest) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/v1/users", nil, req, &u); err != nil {
		return u, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, req models.UserRequest) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, idPath("/api/v1/users/%d", id), nil, req, &u); err != nil {
		return u, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return u, nil
}

// ToggleUserStatus flips a user between active and blocked
func (c *Client) ToggleUserStatus(ctx context.Context, id int) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, idPath("/api/v1/users/%d/status", id), nil, nil, &u); err != nil {
		return u, fmt.Errorf("failed to toggle user %d: %w", id, err)
	}
	return u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, idPath("/api/v1/users/%d", id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
