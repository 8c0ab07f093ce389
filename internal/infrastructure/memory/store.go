// Package memory is an in-process stand-in for the Forto REST backend.
// It backs demo mode and the tests of everything above the backend client.
package memory

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	identity entity.Identity
	hash     []byte
}

// SeedUser is a demo account created at startup
type SeedUser struct {
	ID       int64
	Username string
	Name     string
	Password string
	Role     enum.Role
}

type Options struct {
	BranchID int64
	Users    []SeedUser
	// HashCost defaults to bcrypt.DefaultCost
	HashCost int
	Now      func() time.Time
}

// Store implements repository.Backend in memory
type Store struct {
	now func() time.Time

	mu            sync.RWMutex
	accounts      map[string]account
	invoices      map[int64]*entity.Invoice
	payments      map[int64]entity.Payment
	preDeletion   map[int64]enum.InvoiceStatus
	nextInvoiceID int64

	branchID    int64
	definitions []entity.ShiftDefinition
	activeShift map[int64]*entity.Shift
	shifts      []entity.Shift
	nextShiftID int64

	catalog       map[enum.CatalogKind]map[int64]*entity.CatalogItem
	nextCatalogID int64

	reservations      map[int64]*entity.Reservation
	nextReservationID int64
}

var _ repository.Backend = (*Store)(nil)

// New creates an empty store with the given accounts
func New(opts Options) (*Store, error) {
	if opts.BranchID == 0 {
		opts.BranchID = 1
	}
	if opts.HashCost == 0 {
		opts.HashCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		now:          opts.Now,
		accounts:     make(map[string]account),
		invoices:     make(map[int64]*entity.Invoice),
		payments:     make(map[int64]entity.Payment),
		preDeletion:  make(map[int64]enum.InvoiceStatus),
		branchID:     opts.BranchID,
		activeShift:  make(map[int64]*entity.Shift),
		catalog:      make(map[enum.CatalogKind]map[int64]*entity.CatalogItem),
		reservations: make(map[int64]*entity.Reservation),
		definitions: []entity.ShiftDefinition{
			{ID: 1, Name: "Morning", StartTime: "06:00", EndTime: "14:00"},
			{ID: 2, Name: "Evening", StartTime: "14:00", EndTime: "22:00"},
		},
	}
	for _, kind := range enum.CatalogKinds {
		s.catalog[kind] = make(map[int64]*entity.CatalogItem)
	}

	for _, u := range opts.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), opts.HashCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", u.Username, err)
		}
		s.accounts[u.Username] = account{
			identity: entity.Identity{
				EmployeeID: u.ID,
				Username:   u.Username,
				Name:       u.Name,
				Role:       u.Role,
				BranchID:   opts.BranchID,
			},
			hash: hash,
		}
	}
	return s, nil
}

// NewSeeded creates a demo store with staff accounts, catalog and a few weeks of invoices.
// Passwords come from SEED_ADMIN_PASSWORD, SEED_CASHIER_PASSWORD and SEED_WORKER_PASSWORD.
func NewSeeded(branchID int64, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Warn("using default demo credentials; set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override")
	}

	s, err := New(Options{
		BranchID: branchID,
		Users: []SeedUser{
			{ID: 1, Username: "admin", Name: "Admin", Password: envOr("SEED_ADMIN_PASSWORD", "admin123"), Role: enum.RoleAdmin},
			{ID: 2, Username: "cashier", Name: "Cashier", Password: envOr("SEED_CASHIER_PASSWORD", "cashier123"), Role: enum.RoleCashier},
			{ID: 3, Username: "worker", Name: "Worker", Password: envOr("SEED_WORKER_PASSWORD", "worker123"), Role: enum.RoleWorker},
		},
	})
	if err != nil {
		return nil, err
	}

	s.seedCatalog()
	s.seedInvoices(40, 2)
	return s, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (s *Store) seedCatalog() {
	now := s.now()
	wash := int64(1)
	items := []entity.CatalogItem{
		{Kind: enum.CatalogCategories, Name: "Washing", Active: true},
		{Kind: enum.CatalogCategories, Name: "Detailing", Active: true},
		{Kind: enum.CatalogServices, Name: "Exterior wash", CategoryID: &wash, Price: decimal.NewFromInt(15), Active: true},
		{Kind: enum.CatalogServices, Name: "Full wash", CategoryID: &wash, Price: decimal.NewFromInt(30), Active: true},
		{Kind: enum.CatalogMaterials, Name: "Shampoo", Unit: "l", Price: decimal.NewFromInt(4), Stock: intPtr(40), Active: true},
		{Kind: enum.CatalogProducts, Name: "Air freshener", Unit: "pc", Price: decimal.RequireFromString("3.50"), Stock: intPtr(120), Active: true},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		item := items[i]
		s.nextCatalogID++
		item.ID = s.nextCatalogID
		item.CreatedAt, item.UpdatedAt = now, now
		s.catalog[item.Kind][item.ID] = &item
	}
}

// seedInvoices spreads n invoices over the last two weeks
func (s *Store) seedInvoices(n int, cashierID int64) {
	today := s.now()
	methods := []enum.PaymentMethod{enum.PaymentMethodCash, enum.PaymentMethodCard, enum.PaymentMethodMixed}
	plates := []string{"AB-123", "CD-456", "EF-789"}

	invoices := make([]entity.Invoice, 0, n)
	for i := 1; i <= n; i++ {
		total := decimal.NewFromInt(20).Add(decimal.NewFromFloat(7.5).Mul(decimal.NewFromInt(int64(i % 9))))
		cost := total.Mul(decimal.RequireFromString("0.4")).Round(2)
		profit := total.Sub(cost)
		plate := plates[i%len(plates)]
		inv := entity.Invoice{
			InvoiceNo:     fmt.Sprintf("INV-%05d", i),
			CustomerName:  fmt.Sprintf("Customer %d", i),
			CustomerPhone: fmt.Sprintf("+3706000%04d", i),
			PlateNumber:   &plate,
			PaymentMethod: methods[i%len(methods)],
			Status:        enum.InvoiceStatusPaid,
			Subtotal:      total,
			Discount:      decimal.Zero,
			Total:         total,
			Cost:          &cost,
			Profit:        &profit,
			ItemsSummary:  "Full wash",
			CashierID:     cashierID,
			IssuedAt:      today.AddDate(0, 0, -(i % 14)).Add(-time.Duration(i) * time.Minute),
		}
		if i%5 == 0 {
			inv.Status = enum.InvoiceStatusUnpaid
		}
		invoices = append(invoices, inv)
	}
	s.AddInvoices(invoices...)
}

func intPtr(n int) *int {
	return &n
}
