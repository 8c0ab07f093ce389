package backend

import (
	"context"
	"errors"
	"net/http"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/pkg/apperror"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (*entity.Identity, error) {
	var identity entity.Identity
	_, err := c.send(c.request(ctx).
		SetBody(loginRequest{Username: username, Password: password}).
		SetResult(&identity), http.MethodPost, "/api/auth/login")
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}
	return &identity, nil
}

func (c *Client) GetEmployee(ctx context.Context, employeeID int64) (*entity.Identity, error) {
	var identity entity.Identity
	_, err := c.send(c.request(ctx).SetResult(&identity), http.MethodGet, "/api/employees/"+itoa(employeeID))
	if err != nil {
		return nil, err
	}
	return &identity, nil
}
