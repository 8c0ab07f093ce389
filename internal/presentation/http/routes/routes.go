package routes

import (
	"net/http"
	"time"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/application/shiftgate"
	"github.com/forto/backoffice/internal/config"
	"github.com/forto/backoffice/internal/domain/enum"
	domainRepo "github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/internal/presentation/http/handler"
	"github.com/forto/backoffice/internal/presentation/http/middleware"
	"github.com/forto/backoffice/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pages of the client the API routes stand in for when the shift gate runs
const (
	invoicesPage     = "/cashier/invoices"
	reservationsPage = "/cashier/reservations"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Navigation   *handler.NavigationHandler
	Shift        *handler.ShiftHandler
	Invoice      *handler.InvoiceHandler
	Catalog      *handler.CatalogHandler
	Reservation  *handler.ReservationHandler
	Report       *handler.ReportHandler
	Notification *handler.NotificationHandler
	Receipt      *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Sessions        *session.Store
	Gate            *shiftgate.Gate
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.EmployeeRateLimiter
	Logger          *zap.Logger
}

// NewRateLimiter builds the per-employee limiter from config
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.EmployeeRateLimiter {
	perSecond := 0.0
	if cfg.Duration > 0 {
		perSecond = float64(cfg.Requests) / float64(cfg.Duration)
	}
	return middleware.NewEmployeeRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: perSecond,
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"service":  deps.Cfg.App.Name,
			"sessions": deps.Sessions.Len(),
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)

		// authenticated by shared secret instead of a staff token
		v1.POST("/hooks/notifications", h.Notification.Hook)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager, deps.Sessions))
		protected.Use(middleware.BranchMiddleware(deps.Cfg.Gate.BranchID))

		rateLimiter := deps.RateLimiter
		if rateLimiter == nil {
			rateLimiter = NewRateLimiter(deps.Cfg.RateLimit)
		}
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.Profile)

	nav := protected.Group("/navigation")
	{
		nav.GET("/check", h.Navigation.Check)
		nav.GET("/menu", h.Navigation.Menu)
	}

	shifts := protected.Group("/shifts")
	{
		shifts.GET("/current", h.Shift.Current)
		shifts.GET("/definitions", h.Shift.Definitions)
		shifts.POST("/start", middleware.RequireRole(enum.RoleCashier), h.Shift.Start)
		shifts.POST("/close", middleware.RequireRole(enum.RoleCashier), h.Shift.Close)
	}

	registerInvoiceRoutes(protected, h, deps)
	registerCatalogRoutes(protected, h)
	registerReservationRoutes(protected, h, deps)

	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(enum.RoleAdmin))
	{
		reports.GET("/dashboard", h.Report.Dashboard)
		reports.GET("/employees", h.Report.Employees)
		reports.GET("/employees/export", h.Report.ExportEmployees)
	}

	protected.GET("/printer/status", h.Receipt.Status)

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.POST("/read", h.Notification.MarkRead)
		notifications.GET("/stream", h.Notification.Stream)
	}
}

func registerInvoiceRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	invoices := protected.Group("/invoices")
	invoices.Use(middleware.RequireShift(deps.Gate, invoicesPage))
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/export", h.Invoice.Export)

		invoices.GET("/view", h.Invoice.View)
		invoices.PATCH("/view", h.Invoice.UpdateView)
		invoices.PUT("/view/page", h.Invoice.GoToPage)
		invoices.POST("/view/modal", h.Invoice.OpenModal)
		invoices.DELETE("/view/modal", h.Invoice.CloseModal)

		invoices.POST("/:id/receipt", middleware.RequireRole(enum.RoleAdmin, enum.RoleCashier), h.Receipt.Print)

		mutations := invoices.Group("/:id")
		mutations.Use(middleware.RequireRole(enum.RoleAdmin, enum.RoleCashier))
		mutations.Use(middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}))
		{
			mutations.POST("/pay", h.Invoice.Pay)
			mutations.POST("/adjust", h.Invoice.Adjust)
			mutations.POST("/deletion-request", h.Invoice.RequestDeletion)
		}
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog/:kind")
	{
		catalog.GET("", h.Catalog.List)
		catalog.GET("/:id", h.Catalog.Get)

		admin := catalog.Group("")
		admin.Use(middleware.RequireRole(enum.RoleAdmin))
		admin.POST("", h.Catalog.Create)
		admin.PUT("/:id", h.Catalog.Update)
		admin.DELETE("/:id", h.Catalog.Delete)
	}
}

func registerReservationRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	reservations := protected.Group("/reservations")
	reservations.Use(middleware.RequireRole(enum.RoleAdmin, enum.RoleCashier))
	reservations.Use(middleware.RequireShift(deps.Gate, reservationsPage))
	{
		reservations.GET("", h.Reservation.List)
		reservations.GET("/slots", h.Reservation.Slots)
		reservations.POST("", h.Reservation.Create)
		reservations.DELETE("/:id", h.Reservation.Cancel)
	}
}
