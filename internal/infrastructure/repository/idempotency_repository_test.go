package repository

import (
	"context"
	"testing"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMemoryIdempotencyKeysAreScopedPerEmployee(t *testing.T) {
	repo := NewMemoryIdempotencyRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{
		Key:          "k1",
		EmployeeID:   1,
		ResponseCode: 200,
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	got, err := repo.GetByKey(ctx, "k1", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.ResponseCode)

	other, err := repo.GetByKey(ctx, "k1", 2)
	require.NoError(t, err)
	assert.Nil(t, other)

	err = repo.Create(ctx, &entity.IdempotencyKey{Key: "k1", EmployeeID: 1, ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMemoryIdempotencyDeleteExpired(t *testing.T) {
	repo := NewMemoryIdempotencyRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "old", EmployeeID: 1, ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "new", EmployeeID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, _ := repo.GetByKey(ctx, "new", 1)
	assert.NotNil(t, got)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := GetActor(ctx)
	assert.False(t, ok)

	ctx = WithBranch(WithActor(ctx, 42), 3)
	actor, ok := GetActor(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), actor)

	branch, ok := GetBranchID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(3), branch)
}
