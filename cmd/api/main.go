package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/application/shiftgate"
	"github.com/forto/backoffice/internal/config"
	"github.com/forto/backoffice/internal/domain/entity"
	domainRepo "github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/internal/infrastructure/backend"
	"github.com/forto/backoffice/internal/infrastructure/database"
	"github.com/forto/backoffice/internal/infrastructure/memory"
	"github.com/forto/backoffice/internal/infrastructure/repository"
	"github.com/forto/backoffice/internal/presentation/http/handler"
	"github.com/forto/backoffice/internal/presentation/http/routes"
	"github.com/forto/backoffice/pkg/logger"
	"github.com/forto/backoffice/pkg/printer"
	"github.com/forto/backoffice/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	idempotencySweepInterval = time.Hour
	sessionSweepInterval     = 10 * time.Minute
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Upstream: the Forto REST backend, or the seeded in-memory one for demos
	var upstream domainRepo.Backend
	if cfg.Backend.DemoMode {
		store, err := memory.NewSeeded(cfg.Gate.BranchID, zl)
		if err != nil {
			zl.Fatal("failed to seed demo backend", zap.Error(err))
		}
		upstream = store
		zl.Warn("running against the in-memory demo backend")
	} else {
		upstream = backend.NewClient(backend.Config{
			BaseURL:      cfg.Backend.URL,
			Timeout:      cfg.Backend.Timeout,
			ClientID:     cfg.Backend.ClientID,
			ClientSecret: cfg.Backend.ClientSecret,
			TokenURL:     cfg.Backend.TokenURL,
		}, zl)
	}

	// Idempotency keys live in Postgres when configured
	var idempotencyRepo domainRepo.IdempotencyRepository
	if cfg.Database.UsesDatabase() {
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, zl)
		if err != nil {
			zl.Fatal("failed to connect to database", zap.Error(err))
		}
		if err := database.AutoMigrate(db, zl); err != nil {
			zl.Fatal("failed to run migrations", zap.Error(err))
		}
		idempotencyRepo = repository.NewIdempotencyRepository(db)
	} else {
		idempotencyRepo = repository.NewMemoryIdempotencyRepository()
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	sessions := session.NewStore(func(identity entity.Identity) *invoicelist.Controller {
		filters := invoicelist.DefaultFilters(time.Now())
		if cfg.Invoices.PageSize > 0 {
			filters.PageSize = cfg.Invoices.PageSize
		}
		branchID := cfg.Gate.BranchID
		if branchID == 0 {
			branchID = identity.BranchID
		}
		// push-triggered refreshes run outside the owner's request
		return invoicelist.NewController(upstream, invoicelist.Options{
			Filters:      &filters,
			ClearOnError: cfg.Invoices.ClearOnError,
			Scope: func(ctx context.Context) context.Context {
				return repository.ForEmployee(ctx, identity.EmployeeID, branchID)
			},
			Logger: zl.With(zap.Int64("employee_id", identity.EmployeeID)),
		})
	})

	gate := shiftgate.New(upstream, shiftgate.Config{
		BranchID:       cfg.Gate.BranchID,
		GatedPrefixes:  cfg.Gate.GatedPrefixes,
		StartShiftPath: cfg.Gate.StartShiftPath,
		LandingPath:    cfg.Gate.LandingPath,
	}, zl)

	authService := service.NewAuthService(upstream, sessions, jwtManager, zl)
	shiftService := service.NewShiftService(upstream, cfg.Gate.BranchID, zl)
	invoiceService := service.NewInvoiceService(upstream, zl)
	catalogService := service.NewCatalogService(upstream)
	reservationService := service.NewReservationService(upstream, zl)
	reportService := service.NewReportService(upstream)
	notificationService := service.NewNotificationService(sessions, cfg.Backend.WebhookSecret, zl)
	receiptPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.Target)
	if err != nil {
		zl.Fatal("invalid printer configuration", zap.Error(err))
	}
	receiptService := service.NewReceiptService(upstream, receiptPrinter, entity.ReceiptHeader{
		StoreName: cfg.Printer.StoreName,
		Address:   cfg.Printer.Address,
		Phone:     cfg.Printer.Phone,
		TaxID:     cfg.Printer.TaxID,
	}, cfg.Printer.Width, zl)
	if cfg.Backend.WebhookSecret == "" {
		zl.Warn("BACKEND_WEBHOOK_SECRET is empty; backend notifications will be rejected")
	}

	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Navigation:   handler.NewNavigationHandler(gate),
		Shift:        handler.NewShiftHandler(shiftService, gate),
		Invoice:      handler.NewInvoiceHandler(invoiceService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Reservation:  handler.NewReservationHandler(reservationService),
		Report:       handler.NewReportHandler(reportService),
		Notification: handler.NewNotificationHandler(notificationService),
		Receipt:      handler.NewReceiptHandler(receiptService),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Sessions:        sessions,
		Gate:            gate,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          zl,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sweepIdempotencyKeys(ctx, idempotencyRepo, zl)
	go sweepSessions(ctx, sessions, sessionIdleLimit(cfg.JWT), zl)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
			zap.String("backend", cfg.Backend.URL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}

func sweepIdempotencyKeys(ctx context.Context, repo domainRepo.IdempotencyRepository, log *zap.Logger) {
	ticker := time.NewTicker(idempotencySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Warn("idempotency sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("expired idempotency keys removed", zap.Int64("count", n))
			}
		}
	}
}

// A session idle for longer than the refresh token lifetime can no longer be resumed
func sessionIdleLimit(cfg config.JWTConfig) time.Duration {
	if cfg.RefreshExpiryHours > cfg.ExpiryHours {
		return cfg.RefreshExpiryHours
	}
	return cfg.ExpiryHours
}

func sweepSessions(ctx context.Context, sessions *session.Store, idle time.Duration, log *zap.Logger) {
	if idle <= 0 {
		log.Warn("session sweep disabled: token lifetimes are not configured")
		return
	}
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(now.Add(-idle)); n > 0 {
				log.Info("idle sessions ended", zap.Int("count", n), zap.Int("live", sessions.Len()))
			}
		}
	}
}
