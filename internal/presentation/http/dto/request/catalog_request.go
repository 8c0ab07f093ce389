package request

import "github.com/shopspring/decimal"

// CatalogItemRequest is the body of catalog create and update; omitted fields stay unchanged on update
type CatalogItemRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	CategoryID  *int64           `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	Unit        *string          `json:"unit" binding:"omitempty,max=50"`
	Stock       *int             `json:"stock"`
	Active      *bool            `json:"active"`
}

// CatalogListQuery filters a catalog collection
type CatalogListQuery struct {
	Search     string `form:"search"`
	CategoryID *int64 `form:"category_id"`
	ActiveOnly bool   `form:"active_only"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
