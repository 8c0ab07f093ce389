package repository

import (
	"context"
	"sync"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	domainRepo "github.com/forto/backoffice/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type idempotencyEntryKey struct {
	key        string
	employeeID int64
}

type memoryIdempotencyRepository struct {
	mu   sync.RWMutex
	keys map[idempotencyEntryKey]entity.IdempotencyKey
}

// NewMemoryIdempotencyRepository keeps idempotency keys in process memory
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[idempotencyEntryKey]entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepository) GetByKey(_ context.Context, key string, employeeID int64) (*entity.IdempotencyKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ikey, ok := r.keys[idempotencyEntryKey{key, employeeID}]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *memoryIdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := idempotencyEntryKey{ikey.Key, ikey.EmployeeID}
	if _, exists := r.keys[k]; exists {
		return gorm.ErrDuplicatedKey
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	r.keys[k] = *ikey
	return nil
}

func (r *memoryIdempotencyRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k, v := range r.keys {
		if v.IsExpired() {
			delete(r.keys, k)
			n++
		}
	}
	return n, nil
}
