package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
)

// AuthGateway verifies staff credentials against the backend
type AuthGateway interface {
	Authenticate(ctx context.Context, username, password string) (*entity.Identity, error)
	GetEmployee(ctx context.Context, employeeID int64) (*entity.Identity, error)
}
