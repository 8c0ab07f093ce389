package handler

import (
	"net/http"

	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves services, categories, materials and products
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func catalogKind(c *gin.Context) (enum.CatalogKind, bool) {
	kind, err := enum.ParseCatalogKind(c.Param("kind"))
	if err != nil {
		response.NotFound(c, "Unknown catalog")
		return "", false
	}
	return kind, true
}

func catalogInput(req request.CatalogItemRequest) *service.CatalogInput {
	return &service.CatalogInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Unit:        req.Unit,
		Stock:       req.Stock,
		Active:      req.Active,
	}
}

// List handles listing one catalog
// @Router /catalog/{kind} [get]
func (h *CatalogHandler) List(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}

	var filter request.CatalogListQuery
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.catalogService.ListItems(c.Request.Context(), kind, &repository.CatalogFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:     filter.Search,
		CategoryID: filter.CategoryID,
		ActiveOnly: filter.ActiveOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "Catalog retrieved", result)
}

// Get handles fetching one item
// @Router /catalog/{kind}/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item retrieved", item)
}

// Create handles creating an item
// @Router /catalog/{kind} [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}

	var req request.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), kind, catalogInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Item created", item)
}

// Update handles a partial update
// @Router /catalog/{kind}/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.CatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), kind, id, catalogInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item updated", item)
}

// Delete handles deleting an item
// @Router /catalog/{kind}/{id} [delete]
func (h *CatalogHandler) Delete(c *gin.Context) {
	kind, ok := catalogKind(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), kind, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
