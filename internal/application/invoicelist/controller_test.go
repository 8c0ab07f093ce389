package invoicelist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingFetcher answers synchronously and remembers every query
type recordingFetcher struct {
	mu      sync.Mutex
	queries []repository.InvoiceQuery
	total   int64
	summary bool
	err     error
}

func (f *recordingFetcher) FetchInvoicePage(_ context.Context, q repository.InvoiceQuery) (*entity.InvoicePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	page := &entity.InvoicePage{TotalCount: f.total}
	start := int64((q.Page - 1) * q.PageSize)
	for i := start; i < f.total && i < start+int64(q.PageSize); i++ {
		page.Invoices = append(page.Invoices, entity.Invoice{
			ID:        i + 1,
			InvoiceNo: fmt.Sprintf("INV-%03d", i+1),
			Total:     decimal.NewFromInt(10),
		})
	}
	if f.summary {
		page.Summary = &entity.InvoiceSummary{
			Count:        f.total,
			TotalRevenue: decimal.NewFromInt(10 * f.total),
			TotalCash:    decimal.NewFromInt(6 * f.total),
			TotalCard:    decimal.NewFromInt(4 * f.total),
		}
	}
	return page, nil
}

func (f *recordingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *recordingFetcher) last() repository.InvoiceQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func scenarioFilters() *FilterState {
	return &FilterState{
		From:     "2026-01-01",
		To:       "2026-01-01",
		Method:   enum.PaymentMethodAll,
		Page:     1,
		PageSize: 10,
	}
}

func newTestController(f Fetcher, opts Options) *Controller {
	if opts.Filters == nil {
		opts.Filters = scenarioFilters()
	}
	return NewController(f, opts)
}

func TestCombinedQueryCarriesAllFilters(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 23, summary: true}
	c := newTestController(f, Options{})

	c.Current(ctx)
	require.Equal(t, 1, f.calls())
	assert.Equal(t, repository.InvoiceQuery{
		Search:   "",
		From:     "2026-01-01",
		To:       "2026-01-01",
		Method:   enum.PaymentMethodAll,
		Status:   "",
		Page:     1,
		PageSize: 10,
	}, f.last())

	_, moved := c.GoToPage(ctx, 2)
	require.True(t, moved)

	_, err := c.SetMethod(ctx, enum.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, repository.InvoiceQuery{
		From:     "2026-01-01",
		To:       "2026-01-01",
		Method:   enum.PaymentMethodCash,
		Page:     1,
		PageSize: 10,
	}, f.last())
}

func TestLatestValuesReachBackend(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 5}
	c := newTestController(f, Options{})

	_, err := c.SetSearch(ctx, "ab")
	require.NoError(t, err)
	_, err = c.SetStatus(ctx, enum.InvoiceStatusPaid)
	require.NoError(t, err)
	_, err = c.SetTo(ctx, "2026-01-05")
	require.NoError(t, err)
	_, err = c.SetSearch(ctx, "abc")
	require.NoError(t, err)

	q := f.last()
	assert.Equal(t, "abc", q.Search)
	assert.Equal(t, enum.InvoiceStatusPaid, q.Status)
	assert.Equal(t, "2026-01-01", q.From)
	assert.Equal(t, "2026-01-05", q.To)
}

func TestFilterChangesResetPage(t *testing.T) {
	ctx := context.Background()
	day := "2026-01-02"
	paid := enum.InvoiceStatusPaid
	card := enum.PaymentMethodCard
	search := "plate"
	size := 5

	patches := map[string]Patch{
		"search":    {Search: &search},
		"from":      {From: &day},
		"to":        {To: &day},
		"method":    {Method: &card},
		"status":    {Status: &paid},
		"page_size": {PageSize: &size},
	}

	for name, p := range patches {
		t.Run(name, func(t *testing.T) {
			f := &recordingFetcher{total: 40}
			c := newTestController(f, Options{Filters: &FilterState{
				From: "2026-01-01", To: "2026-01-03", Method: enum.PaymentMethodAll, Page: 1, PageSize: 10,
			}})

			c.Current(ctx)
			_, moved := c.GoToPage(ctx, 3)
			require.True(t, moved)
			require.Equal(t, 3, c.Filters().Page)

			page, err := c.Apply(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, 1, page.Filters.Page)
			assert.Equal(t, 1, f.last().Page)
		})
	}
}

func TestPageChangeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 30}
	c := newTestController(f, Options{})

	_, err := c.SetSearch(ctx, "wash")
	require.NoError(t, err)
	before := c.Filters()

	_, moved := c.GoToPage(ctx, 2)
	require.True(t, moved)

	after := c.Filters()
	assert.Equal(t, 2, after.Page)
	after.Page = before.Page
	assert.Equal(t, before, after)
}

func TestPaginationScenario(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 23, summary: true}
	c := newTestController(f, Options{})

	c.Current(ctx)
	assert.Equal(t, 3, c.TotalPages())
	assert.EqualValues(t, 23, c.TotalCount())

	page, moved := c.GoToPage(ctx, 2)
	require.True(t, moved)
	assert.EqualValues(t, 11, page.StartIndex)
	assert.EqualValues(t, 20, page.EndIndex)

	page, moved = c.GoToPage(ctx, 3)
	require.True(t, moved)
	assert.EqualValues(t, 21, c.StartIndex())
	assert.EqualValues(t, 23, c.EndIndex())
	assert.Len(t, page.Rows, 3)
}

func TestGoToPageOutOfRangeIsNoop(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 23}
	c := newTestController(f, Options{})
	c.Current(ctx)
	calls := f.calls()

	for _, n := range []int{-1, 0, 4, 100} {
		_, moved := c.GoToPage(ctx, n)
		assert.False(t, moved, "page %d", n)
	}
	assert.Equal(t, calls, f.calls())
	assert.Equal(t, 1, c.Filters().Page)

	_, moved := c.PrevPage(ctx)
	assert.False(t, moved)
	_, moved = c.NextPage(ctx)
	assert.True(t, moved)
}

func TestTotalPagesAtLeastOne(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 0}
	c := newTestController(f, Options{})

	assert.Equal(t, 1, c.TotalPages())
	page := c.Current(ctx)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, c.TotalPages())
	assert.Zero(t, page.StartIndex)
	assert.Zero(t, page.EndIndex)
}

func TestDailyAmountFallsBackToRows(t *testing.T) {
	ctx := context.Background()
	f := fetcherFunc(func(_ context.Context, _ repository.InvoiceQuery) (*entity.InvoicePage, error) {
		return &entity.InvoicePage{
			Invoices: []entity.Invoice{
				{ID: 1, Total: decimal.NewFromInt(100)},
				{ID: 2, Total: decimal.NewFromInt(50)},
				{ID: 3, Total: decimal.NewFromInt(25)},
			},
			Summary: nil,
		}, nil
	})
	c := newTestController(f, Options{})

	page := c.Current(ctx)
	assert.True(t, decimal.NewFromInt(175).Equal(page.TotalDailyAmount))
	assert.True(t, decimal.NewFromInt(175).Equal(c.TotalDailyAmount()))
	assert.EqualValues(t, 3, c.TotalCount())
	assert.True(t, c.TotalRevenue().IsZero())
}

func TestSummaryDrivesTotals(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 12, summary: true}
	c := newTestController(f, Options{})

	c.Current(ctx)
	assert.True(t, decimal.NewFromInt(120).Equal(c.TotalDailyAmount()))
	assert.True(t, decimal.NewFromInt(120).Equal(c.TotalRevenue()))
	assert.True(t, decimal.NewFromInt(72).Equal(c.TotalCash()))
	assert.True(t, decimal.NewFromInt(48).Equal(c.TotalCard()))
}

func TestUnchangedValueDoesNotFetch(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 3}
	c := newTestController(f, Options{})

	c.Current(ctx)
	_, err := c.SetMethod(ctx, enum.PaymentMethodAll)
	require.NoError(t, err)
	_, err = c.SetSearch(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls())

	c.Refresh(ctx)
	assert.Equal(t, 2, f.calls())
}

func TestInvalidPatchIsRejectedBeforeFetch(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 3}
	c := newTestController(f, Options{})

	_, err := c.SetFrom(ctx, "01/02/2026")
	assert.Error(t, err)
	_, err = c.SetPageSize(ctx, 0)
	assert.Error(t, err)
	_, err = c.SetTo(ctx, "2025-12-31")
	assert.Error(t, err)
	_, err = c.SetMethod(ctx, enum.PaymentMethod("voucher"))
	assert.Error(t, err)

	assert.Zero(t, f.calls())
	assert.Equal(t, "2026-01-01", c.Filters().To)
}

func TestLateSubscriberReplaysCurrentPage(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 4}
	c := newTestController(f, Options{})

	first := c.Current(ctx)
	ch, cancel := c.Subscribe()
	defer cancel()

	select {
	case got := <-ch:
		assert.Same(t, first, got)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the current page")
	}
	assert.Same(t, first, c.Current(ctx))
	assert.Equal(t, 1, f.calls())

	refreshed := c.Refresh(ctx)
	assert.Same(t, refreshed, <-ch)
}

func TestFetchErrorKeepsStaleRows(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 3}
	c := newTestController(f, Options{})

	good := c.Current(ctx)
	require.Len(t, good.Rows, 3)

	f.mu.Lock()
	f.err = errors.New("connection refused")
	f.mu.Unlock()

	page := c.Refresh(ctx)
	assert.True(t, page.Stale)
	assert.NotEmpty(t, page.Error)
	assert.Len(t, page.Rows, 3)
	assert.Greater(t, page.Seq, good.Seq)
}

func TestFetchErrorClearsRowsWhenConfigured(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 3}
	c := newTestController(f, Options{ClearOnError: true})

	c.Current(ctx)
	f.mu.Lock()
	f.err = errors.New("timeout")
	f.mu.Unlock()

	page := c.Refresh(ctx)
	assert.False(t, page.Stale)
	assert.Empty(t, page.Rows)
	assert.Zero(t, page.TotalCount)
	assert.Equal(t, "timeout", page.Error)
}

func TestStalePageKeepsIndexesOfItsRows(t *testing.T) {
	ctx := context.Background()
	f := &recordingFetcher{total: 23}
	c := newTestController(f, Options{})

	page, moved := c.GoToPage(ctx, 2)
	require.True(t, moved)
	require.Equal(t, int64(11), page.StartIndex)

	f.mu.Lock()
	f.err = errors.New("connection reset")
	f.mu.Unlock()

	stale, err := c.SetPageSize(ctx, 5)
	require.NoError(t, err)
	require.True(t, stale.Stale)
	assert.Equal(t, 2, stale.Filters.Page)
	assert.Equal(t, 10, stale.Filters.PageSize)
	assert.Equal(t, int64(11), stale.StartIndex)
	assert.Equal(t, int64(20), stale.EndIndex)
	assert.Equal(t, 3, stale.TotalPages)

	require.NotNil(t, stale.Requested)
	assert.Equal(t, 1, stale.Requested.Page)
	assert.Equal(t, 5, stale.Requested.PageSize)
	assert.Equal(t, 5, c.Filters().PageSize)
}

type ownerKey struct{}

func TestScopeAppliesToEveryFetch(t *testing.T) {
	var (
		mu     sync.Mutex
		owners []interface{}
	)
	f := fetcherFunc(func(ctx context.Context, _ repository.InvoiceQuery) (*entity.InvoicePage, error) {
		mu.Lock()
		owners = append(owners, ctx.Value(ownerKey{}))
		mu.Unlock()
		return &entity.InvoicePage{}, nil
	})
	c := newTestController(f, Options{
		Scope: func(ctx context.Context) context.Context {
			return context.WithValue(ctx, ownerKey{}, int64(7))
		},
	})

	c.Current(context.Background())
	c.Refresh(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []interface{}{int64(7), int64(7)}, owners)
}

type fetcherFunc func(context.Context, repository.InvoiceQuery) (*entity.InvoicePage, error)

func (f fetcherFunc) FetchInvoicePage(ctx context.Context, q repository.InvoiceQuery) (*entity.InvoicePage, error) {
	return f(ctx, q)
}

// pendingCall is a fetch held open until the test releases it
type pendingCall struct {
	query   repository.InvoiceQuery
	release chan struct{}
}

type gatedFetcher struct {
	arrived chan *pendingCall
}

func (g *gatedFetcher) FetchInvoicePage(_ context.Context, q repository.InvoiceQuery) (*entity.InvoicePage, error) {
	call := &pendingCall{query: q, release: make(chan struct{})}
	g.arrived <- call
	<-call.release
	return &entity.InvoicePage{
		Invoices:   []entity.Invoice{{ID: 1, InvoiceNo: "for-" + q.Search, Total: decimal.NewFromInt(1)}},
		TotalCount: 1,
	}, nil
}

func TestOverlappingFetchesOnlyApplyLatest(t *testing.T) {
	for _, order := range []string{"newest-first", "oldest-first"} {
		t.Run(order, func(t *testing.T) {
			ctx := context.Background()
			g := &gatedFetcher{arrived: make(chan *pendingCall)}
			c := newTestController(g, Options{})

			updates, cancel := c.Subscribe()
			defer cancel()

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _ = c.SetSearch(ctx, "A")
			}()
			callA := <-g.arrived
			go func() {
				defer wg.Done()
				_, _ = c.SetSearch(ctx, "B")
			}()
			callB := <-g.arrived

			require.Equal(t, "A", callA.query.Search)
			require.Equal(t, "B", callB.query.Search)

			if order == "newest-first" {
				close(callB.release)
				got := <-updates
				assert.Equal(t, "for-B", got.Rows[0].InvoiceNo)
				close(callA.release)
			} else {
				close(callA.release)
				close(callB.release)
			}
			wg.Wait()

			current := c.Peek()
			require.NotNil(t, current)
			assert.Equal(t, "B", current.Filters.Search)
			assert.Equal(t, "for-B", current.Rows[0].InvoiceNo)

			select {
			case got := <-updates:
				assert.Equal(t, "for-B", got.Rows[0].InvoiceNo)
			default:
			}
		})
	}
}

func TestCloseEndsSubscriptions(t *testing.T) {
	c := newTestController(&recordingFetcher{}, Options{})
	ch, _ := c.Subscribe()
	c.Close()

	_, open := <-ch
	assert.False(t, open)

	late, _ := c.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestDefaultFiltersUseToday(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	c := NewController(&recordingFetcher{}, Options{Now: func() time.Time { return now }})

	f := c.Filters()
	assert.Equal(t, "2026-03-14", f.From)
	assert.Equal(t, "2026-03-14", f.To)
	assert.Equal(t, enum.PaymentMethodAll, f.Method)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 10, f.PageSize)
}

func TestFilterStateValidate(t *testing.T) {
	f := DefaultFilters(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, f.Validate())

	f.From, f.To = "2024-01-31", "2024-01-01"
	assert.True(t, apperror.HasCode(f.Validate(), 422))

	f = DefaultFilters(time.Now())
	f.Page = 0
	assert.Error(t, f.Validate())
}
