package handler

import (
	"github.com/forto/backoffice/internal/application/shiftgate"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// MenuItem is one entry of the role-based navigation menu
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	// Gated entries need an active shift for cashiers
	Gated bool `json:"gated"`
}

var menus = map[enum.Role][]MenuItem{
	enum.RoleAdmin: {
		{Label: "Dashboard", Path: "/admin/dashboard"},
		{Label: "Invoices", Path: "/admin/invoices"},
		{Label: "Services", Path: "/admin/catalog/services"},
		{Label: "Categories", Path: "/admin/catalog/categories"},
		{Label: "Materials", Path: "/admin/catalog/materials"},
		{Label: "Products", Path: "/admin/catalog/products"},
		{Label: "Employee report", Path: "/admin/reports/employees"},
	},
	enum.RoleCashier: {
		{Label: "Invoices", Path: "/cashier/invoices"},
		{Label: "Reservations", Path: "/cashier/reservations"},
		{Label: "Shift", Path: "/cashier/start-shift"},
	},
	enum.RoleWorker: {
		{Label: "Invoices", Path: "/worker/invoices"},
	},
}

// NavigationHandler answers navigation questions of the client router
type NavigationHandler struct {
	gate *shiftgate.Gate
}

// NewNavigationHandler creates a new navigation handler
func NewNavigationHandler(gate *shiftgate.Gate) *NavigationHandler {
	return &NavigationHandler{gate: gate}
}

// Check runs the shift gate for a navigation attempt
// @Router /navigation/check [get]
func (h *NavigationHandler) Check(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	target := c.Query("path")
	if target == "" {
		response.BadRequest(c, "path is required")
		return
	}

	response.OK(c, "Navigation checked", h.gate.Check(c.Request.Context(), sess, target))
}

// Menu returns the menu of the caller's role
// @Router /navigation/menu [get]
func (h *NavigationHandler) Menu(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	items := make([]MenuItem, 0, len(menus[identity.Role]))
	for _, item := range menus[identity.Role] {
		item.Gated = identity.IsCashier() && h.gate.Gated(item.Path) && item.Path != h.gate.StartShiftPath()
		items = append(items, item)
	}
	response.OK(c, "Menu retrieved", items)
}
