package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/pagination"
)

func (s *Store) List(_ context.Context, kind enum.CatalogKind, params *repository.CatalogFilterParams) ([]entity.CatalogItem, int64, error) {
	if params == nil {
		params = &repository.CatalogFilterParams{}
	}
	page := params.Pagination
	if page == nil {
		page = pagination.DefaultPagination()
	}
	page.Validate()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []entity.CatalogItem
	for _, item := range s.catalog[kind] {
		if params.ActiveOnly && !item.Active {
			continue
		}
		if params.CategoryID != nil && (item.CategoryID == nil || *item.CategoryID != *params.CategoryID) {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(params.Search)) {
			continue
		}
		matched = append(matched, *item)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *Store) Get(_ context.Context, kind enum.CatalogKind, id int64) (*entity.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.catalog[kind][id]
	if !ok {
		return nil, apperror.NewNotFoundError("Catalog item")
	}
	cp := *item
	return &cp, nil
}

func (s *Store) Create(_ context.Context, item *entity.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.catalog[item.Kind]
	if !ok {
		return apperror.NewFieldError("kind", "unknown catalog kind")
	}
	for _, existing := range items {
		if strings.EqualFold(existing.Name, item.Name) {
			return apperror.NewConflictError("An item with this name already exists")
		}
	}

	now := s.now()
	s.nextCatalogID++
	item.ID = s.nextCatalogID
	item.CreatedAt, item.UpdatedAt = now, now
	cp := *item
	items[item.ID] = &cp
	return nil
}

func (s *Store) Update(_ context.Context, item *entity.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.catalog[item.Kind][item.ID]
	if !ok {
		return apperror.NewNotFoundError("Catalog item")
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = s.now()
	cp := *item
	s.catalog[item.Kind][item.ID] = &cp
	return nil
}

func (s *Store) Delete(_ context.Context, kind enum.CatalogKind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog[kind][id]; !ok {
		return apperror.NewNotFoundError("Catalog item")
	}
	delete(s.catalog[kind], id)
	return nil
}
