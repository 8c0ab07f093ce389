package service

import (
	"context"
	"strings"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CatalogService manages services, categories, materials and products
type CatalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// CatalogInput represents create and update input; nil fields are left untouched on update
type CatalogInput struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Price       *decimal.Decimal
	Unit        *string
	Stock       *int
	Active      *bool
}

// ListItems lists one catalog collection
func (s *CatalogService) ListItems(ctx context.Context, kind enum.CatalogKind, params *repository.CatalogFilterParams) (*pagination.PaginatedResult[entity.CatalogItem], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	items, total, err := s.catalogRepo.List(ctx, kind, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// GetItem retrieves a catalog item by ID
func (s *CatalogService) GetItem(ctx context.Context, kind enum.CatalogKind, id int64) (*entity.CatalogItem, error) {
	item, err := s.catalogRepo.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Catalog item")
	}
	return item, nil
}

// CreateItem creates a catalog item; new items are active unless stated otherwise
func (s *CatalogService) CreateItem(ctx context.Context, kind enum.CatalogKind, input *CatalogInput) (*entity.CatalogItem, error) {
	item := &entity.CatalogItem{Kind: kind, Active: true}
	if input.Name == nil {
		return nil, apperror.NewFieldError("name", "is required")
	}
	applyCatalogInput(item, input)
	if err := validateCatalogItem(item); err != nil {
		return nil, err
	}

	if err := s.catalogRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update to a catalog item
func (s *CatalogService) UpdateItem(ctx context.Context, kind enum.CatalogKind, id int64, input *CatalogInput) (*entity.CatalogItem, error) {
	item, err := s.GetItem(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	applyCatalogInput(item, input)
	if err := validateCatalogItem(item); err != nil {
		return nil, err
	}

	if err := s.catalogRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem deletes a catalog item
func (s *CatalogService) DeleteItem(ctx context.Context, kind enum.CatalogKind, id int64) error {
	if _, err := s.GetItem(ctx, kind, id); err != nil {
		return err
	}
	return s.catalogRepo.Delete(ctx, kind, id)
}

func applyCatalogInput(item *entity.CatalogItem, input *CatalogInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.CategoryID != nil {
		item.CategoryID = input.CategoryID
	}
	if input.Price != nil {
		item.Price = input.Price.Round(2)
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.Stock != nil {
		item.Stock = input.Stock
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
}

func validateCatalogItem(item *entity.CatalogItem) error {
	var errs []apperror.FieldError
	if item.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if item.Price.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "price", Message: "must not be negative"})
	}
	if !item.Kind.HasPrice() && !item.Price.IsZero() {
		errs = append(errs, apperror.FieldError{Field: "price", Message: "categories have no price"})
	}
	if item.Stock != nil && !item.Kind.HasStock() {
		errs = append(errs, apperror.FieldError{Field: "stock", Message: "only materials and products track stock"})
	}
	if item.Stock != nil && *item.Stock < 0 {
		errs = append(errs, apperror.FieldError{Field: "stock", Message: "must not be negative"})
	}
	if item.Kind == enum.CatalogCategories && item.CategoryID != nil {
		errs = append(errs, apperror.FieldError{Field: "category_id", Message: "categories cannot be nested"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}
