package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/internal/infrastructure/memory"
	infraRepo "github.com/forto/backoffice/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

const (
	adminID   = 1
	cashierID = 2
	workerID  = 3
)

// countingBackend counts the mutation calls that reach the backend and
// remembers the actor of every list fetch
type countingBackend struct {
	*memory.Store
	pays    atomic.Int32
	adjusts atomic.Int32

	mu          sync.Mutex
	fetchActors []int64
}

func (b *countingBackend) FetchInvoicePage(ctx context.Context, q repository.InvoiceQuery) (*entity.InvoicePage, error) {
	actor, _ := infraRepo.GetActor(ctx)
	b.mu.Lock()
	b.fetchActors = append(b.fetchActors, actor)
	b.mu.Unlock()
	return b.Store.FetchInvoicePage(ctx, q)
}

func (b *countingBackend) actors() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int64(nil), b.fetchActors...)
}

func (b *countingBackend) PayInvoice(ctx context.Context, id int64, p entity.Payment) error {
	b.pays.Add(1)
	return b.Store.PayInvoice(ctx, id, p)
}

func (b *countingBackend) AdjustInvoice(ctx context.Context, id int64, a entity.Adjustment) error {
	b.adjusts.Add(1)
	return b.Store.AdjustInvoice(ctx, id, a)
}

type testEnv struct {
	backend  *countingBackend
	sessions *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := memory.New(memory.Options{
		BranchID: 1,
		HashCost: bcrypt.MinCost,
		Now:      func() time.Time { return testNow },
		Users: []memory.SeedUser{
			{ID: adminID, Username: "admin", Name: "Admin", Password: "admin", Role: enum.RoleAdmin},
			{ID: cashierID, Username: "cashier", Name: "Cashier", Password: "cashier", Role: enum.RoleCashier},
			{ID: workerID, Username: "worker", Name: "Worker", Password: "worker", Role: enum.RoleWorker},
		},
	})
	require.NoError(t, err)

	backend := &countingBackend{Store: store}
	sessions := session.NewStore(func(identity entity.Identity) *invoicelist.Controller {
		return invoicelist.NewController(backend, invoicelist.Options{
			Scope: func(ctx context.Context) context.Context {
				return infraRepo.ForEmployee(ctx, identity.EmployeeID, identity.BranchID)
			},
			Now:    func() time.Time { return testNow },
			Logger: zap.NewNop(),
		})
	})
	return &testEnv{backend: backend, sessions: sessions}
}

func (e *testEnv) login(role enum.Role) *session.Context {
	ids := map[enum.Role]int64{enum.RoleAdmin: adminID, enum.RoleCashier: cashierID, enum.RoleWorker: workerID}
	return e.sessions.Create(entity.Identity{EmployeeID: ids[role], Name: string(role), Role: role, BranchID: 1})
}
