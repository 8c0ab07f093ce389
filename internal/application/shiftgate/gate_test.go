package shiftgate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	mu    sync.Mutex
	shift *entity.Shift
	err   error
	calls int
}

func (p *stubProvider) CurrentShift(_ context.Context, _ int64) (*entity.Shift, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.shift == nil {
		return nil, nil
	}
	cp := *p.shift
	return &cp, nil
}

func (p *stubProvider) set(shift *entity.Shift, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shift, p.err = shift, err
}

func (p *stubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

const cashierID = 7

func newSession(role enum.Role) *session.Context {
	store := session.NewStore(nil)
	return store.Create(entity.Identity{EmployeeID: cashierID, Role: role, BranchID: 1})
}

func TestNonCashierAlwaysAllowedWithoutLookup(t *testing.T) {
	for _, role := range []enum.Role{enum.RoleAdmin, enum.RoleWorker} {
		provider := &stubProvider{err: errors.New("must not be called")}
		gate := New(provider, Config{}, nil)

		for _, target := range []string{"/cashier/invoices", "/cashier/start-shift", "/cashier/reservations"} {
			d := gate.Check(context.Background(), newSession(role), target)
			assert.True(t, d.Allowed(), "%s -> %s", role, target)
			assert.Empty(t, d.RedirectTo)
		}
		assert.Zero(t, provider.Calls(), string(role))
	}
}

func TestUngatedPathsSkipLookup(t *testing.T) {
	provider := &stubProvider{}
	gate := New(provider, Config{}, nil)

	d := gate.Check(context.Background(), newSession(enum.RoleCashier), "/admin/catalog")
	assert.True(t, d.Allowed())
	assert.Equal(t, StateUnknown, d.State)
	assert.Zero(t, provider.Calls())

	assert.False(t, gate.Gated("/cashierx"))
	assert.True(t, gate.Gated("/cashier"))
	assert.True(t, gate.Gated("/cashier/invoices?page=2"))
}

func TestCashierWithoutShiftIsRedirected(t *testing.T) {
	provider := &stubProvider{}
	gate := New(provider, Config{}, nil)
	sess := newSession(enum.RoleCashier)

	d := gate.Check(context.Background(), sess, "/cashier/invoices")
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, DefaultStartShiftPath, d.RedirectTo)
	assert.Equal(t, StateInactive, d.State)
	assert.Nil(t, sess.Shift())

	d = gate.Check(context.Background(), sess, "/cashier/start-shift")
	assert.True(t, d.Allowed())
	assert.Equal(t, StateInactive, d.State)
}

func TestCashierWithOwnShiftIsAllowed(t *testing.T) {
	provider := &stubProvider{shift: &entity.Shift{ID: 3, OpenedBy: cashierID, Active: true}}
	gate := New(provider, Config{}, nil)
	sess := newSession(enum.RoleCashier)

	d := gate.Check(context.Background(), sess, "/cashier/invoices")
	assert.True(t, d.Allowed())
	assert.Equal(t, StateActive, d.State)
	require.NotNil(t, sess.Shift())
	assert.Equal(t, int64(3), sess.Shift().ID)

	d = gate.Check(context.Background(), sess, "/cashier/start-shift/")
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, DefaultLandingPath, d.RedirectTo)
}

func TestShiftOwnedByAnotherCashierCountsAsInactive(t *testing.T) {
	provider := &stubProvider{shift: &entity.Shift{ID: 3, OpenedBy: cashierID + 1, Active: true}}
	gate := New(provider, Config{}, nil)
	sess := newSession(enum.RoleCashier)
	sess.ReplaceShift(&entity.Shift{ID: 2, OpenedBy: cashierID, Active: true})

	d := gate.Check(context.Background(), sess, "/cashier/invoices")
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, DefaultStartShiftPath, d.RedirectTo)
	assert.Equal(t, StateInactive, d.State)
	assert.Nil(t, sess.Shift())
}

func TestLookupFailureRedirectsButNeverFromStartShift(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	gate := New(provider, Config{}, nil)
	sess := newSession(enum.RoleCashier)

	d := gate.Check(context.Background(), sess, "/cashier/reservations")
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, DefaultStartShiftPath, d.RedirectTo)
	assert.Equal(t, StateInactive, d.State)

	d = gate.Check(context.Background(), sess, "/cashier/start-shift")
	assert.True(t, d.Allowed())
}

func TestEveryNavigationRunsFreshLookup(t *testing.T) {
	provider := &stubProvider{shift: &entity.Shift{ID: 3, OpenedBy: cashierID, Active: true}}
	gate := New(provider, Config{}, nil)
	sess := newSession(enum.RoleCashier)

	require.True(t, gate.Check(context.Background(), sess, "/cashier/invoices").Allowed())

	// shift closed elsewhere; the cached copy must not be trusted
	provider.set(nil, nil)
	d := gate.Check(context.Background(), sess, "/cashier/invoices")
	assert.Equal(t, OutcomeRedirect, d.Outcome)
	assert.Equal(t, 2, provider.Calls())
	assert.Nil(t, sess.Shift())
}

func TestTransitionsPassThroughChecking(t *testing.T) {
	var seen []State
	provider := &stubProvider{shift: &entity.Shift{ID: 3, OpenedBy: cashierID, Active: true}}
	gate := New(provider, Config{OnTransition: func(s State) { seen = append(seen, s) }}, nil)

	gate.Check(context.Background(), newSession(enum.RoleCashier), "/cashier/invoices")
	assert.Equal(t, []State{StateUnknown, StateChecking, StateActive}, seen)

	seen = nil
	provider.set(nil, nil)
	gate.Check(context.Background(), newSession(enum.RoleCashier), "/cashier/invoices")
	assert.Equal(t, []State{StateUnknown, StateChecking, StateInactive}, seen)
}

func TestStartShiftThenReservationsAllowed(t *testing.T) {
	provider := &stubProvider{}
	gate := New(provider, Config{}, nil)
	sess := newSession(enum.RoleCashier)

	d := gate.Check(context.Background(), sess, "/cashier/reservations")
	require.Equal(t, OutcomeRedirect, d.Outcome)
	require.Equal(t, DefaultStartShiftPath, d.RedirectTo)

	// cashier opens a shift on the start-shift page
	provider.set(&entity.Shift{ID: 11, OpenedBy: cashierID, Active: true}, nil)

	d = gate.Check(context.Background(), sess, "/cashier/reservations")
	assert.True(t, d.Allowed())
	assert.Equal(t, StateActive, d.State)
	require.NotNil(t, d.Shift)
	assert.Equal(t, int64(11), d.Shift.ID)
}

func TestClosedSessionIsTreatedAsAnonymous(t *testing.T) {
	provider := &stubProvider{}
	gate := New(provider, Config{}, nil)
	store := session.NewStore(nil)
	sess := store.Create(entity.Identity{EmployeeID: cashierID, Role: enum.RoleCashier})
	store.End(sess.ID())

	d := gate.Check(context.Background(), sess, "/cashier/invoices")
	assert.True(t, d.Allowed())
	assert.Zero(t, provider.Calls())
}
