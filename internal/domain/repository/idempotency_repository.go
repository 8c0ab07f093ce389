package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil, nil when the key has not been seen for this employee
	GetByKey(ctx context.Context, key string, employeeID int64) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes expired keys and reports how many were dropped
	DeleteExpired(ctx context.Context) (int64, error)
}
