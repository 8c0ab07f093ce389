package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCatalogCreateValidates(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.backend)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, enum.CatalogServices, &CatalogInput{})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	negative := dec("-1")
	_, err = svc.CreateItem(ctx, enum.CatalogProducts, &CatalogInput{Name: strPtr("Wax"), Price: &negative})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	stock := 5
	_, err = svc.CreateItem(ctx, enum.CatalogServices, &CatalogInput{Name: strPtr("Wash"), Stock: &stock})
	assert.True(t, apperror.HasCode(err, http.StatusUnprocessableEntity))

	price := dec("12.499")
	item, err := svc.CreateItem(ctx, enum.CatalogProducts, &CatalogInput{Name: strPtr(" Wax "), Price: &price, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Wax", item.Name)
	assert.True(t, dec("12.50").Equal(item.Price))
	assert.True(t, item.Active)
}

func TestCatalogUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(env.backend)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, enum.CatalogCategories, &CatalogInput{Name: strPtr("Washing")})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateItem(ctx, enum.CatalogCategories, item.ID, &CatalogInput{Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Washing", updated.Name)
	assert.False(t, updated.Active)

	result, err := svc.ListItems(ctx, enum.CatalogCategories, &repository.CatalogFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		ActiveOnly: true,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Items)

	require.NoError(t, svc.DeleteItem(ctx, enum.CatalogCategories, item.ID))
	err = svc.DeleteItem(ctx, enum.CatalogCategories, item.ID)
	assert.True(t, apperror.HasCode(err, http.StatusNotFound))
}
