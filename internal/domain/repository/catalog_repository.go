package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/pkg/pagination"
)

// CatalogFilterParams contains filtering parameters for catalog queries
type CatalogFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *int64
	ActiveOnly bool
}

// CatalogRepository defines the interface for catalog data operations
type CatalogRepository interface {
	List(ctx context.Context, kind enum.CatalogKind, params *CatalogFilterParams) ([]entity.CatalogItem, int64, error)
	Get(ctx context.Context, kind enum.CatalogKind, id int64) (*entity.CatalogItem, error)
	Create(ctx context.Context, item *entity.CatalogItem) error
	Update(ctx context.Context, item *entity.CatalogItem) error
	Delete(ctx context.Context, kind enum.CatalogKind, id int64) error
}
