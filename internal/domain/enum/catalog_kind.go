package enum

import "fmt"

// CatalogKind names one of the managed catalog collections
type CatalogKind string

const (
	CatalogServices   CatalogKind = "services"
	CatalogCategories CatalogKind = "categories"
	CatalogMaterials  CatalogKind = "materials"
	CatalogProducts   CatalogKind = "products"
)

// CatalogKinds lists every collection in display order
var CatalogKinds = []CatalogKind{CatalogServices, CatalogCategories, CatalogMaterials, CatalogProducts}

func (k CatalogKind) String() string {
	return string(k)
}

// HasStock reports whether items of this kind track stock levels
func (k CatalogKind) HasStock() bool {
	return k == CatalogMaterials || k == CatalogProducts
}

// HasPrice reports whether items of this kind carry a price
func (k CatalogKind) HasPrice() bool {
	return k != CatalogCategories
}

// ParseCatalogKind validates a kind taken from a route parameter
func ParseCatalogKind(s string) (CatalogKind, error) {
	for _, k := range CatalogKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown catalog kind %q", s)
}
