package entity

import (
	"time"

	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CatalogItem is a service, category, material or product.
// Price, Unit and Stock only apply to the kinds that use them.
type CatalogItem struct {
	ID          int64            `json:"id"`
	Kind        enum.CatalogKind `json:"kind"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Unit        string           `json:"unit,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
