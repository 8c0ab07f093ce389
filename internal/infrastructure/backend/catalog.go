package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
)

type catalogListResponse struct {
	Data  []entity.CatalogItem `json:"data"`
	Total int64                `json:"total"`
}

func catalogPath(kind enum.CatalogKind) string {
	return "/api/catalog/" + kind.String()
}

func (c *Client) List(ctx context.Context, kind enum.CatalogKind, params *repository.CatalogFilterParams) ([]entity.CatalogItem, int64, error) {
	query := map[string]string{}
	if params != nil {
		if params.Pagination != nil {
			query["page"] = strconv.Itoa(params.Pagination.Page)
			query["per_page"] = strconv.Itoa(params.Pagination.PerPage)
		}
		if params.Search != "" {
			query["search"] = params.Search
		}
		if params.CategoryID != nil {
			query["category_id"] = itoa(*params.CategoryID)
		}
		if params.ActiveOnly {
			query["active"] = "true"
		}
	}

	var out catalogListResponse
	_, err := c.send(c.request(ctx).SetQueryParams(query).SetResult(&out), http.MethodGet, catalogPath(kind))
	if err != nil {
		return nil, 0, err
	}
	for i := range out.Data {
		out.Data[i].Kind = kind
	}
	return out.Data, out.Total, nil
}

func (c *Client) Get(ctx context.Context, kind enum.CatalogKind, id int64) (*entity.CatalogItem, error) {
	var item entity.CatalogItem
	_, err := c.send(c.request(ctx).SetResult(&item), http.MethodGet, catalogPath(kind)+"/"+itoa(id))
	if err != nil {
		return nil, err
	}
	item.Kind = kind
	return &item, nil
}

func (c *Client) Create(ctx context.Context, item *entity.CatalogItem) error {
	_, err := c.send(c.request(ctx).SetBody(item).SetResult(item), http.MethodPost, catalogPath(item.Kind))
	return err
}

func (c *Client) Update(ctx context.Context, item *entity.CatalogItem) error {
	_, err := c.send(c.request(ctx).SetBody(item).SetResult(item), http.MethodPut, catalogPath(item.Kind)+"/"+itoa(item.ID))
	return err
}

func (c *Client) Delete(ctx context.Context, kind enum.CatalogKind, id int64) error {
	_, err := c.send(c.request(ctx), http.MethodDelete, catalogPath(kind)+"/"+itoa(id))
	return err
}
