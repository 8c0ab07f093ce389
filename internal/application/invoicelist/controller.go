// Package invoicelist keeps the filtered, paginated invoice list of one staff session.
//
// Every effective filter change issues exactly one backend fetch tagged with a
// monotonically increasing sequence number. Only the response carrying the latest
// tag is applied, so an older request that resolves late never overwrites newer state.
package invoicelist

import (
	"context"
	"sync"
	"time"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fetcher issues the combined list query
type Fetcher interface {
	FetchInvoicePage(ctx context.Context, query repository.InvoiceQuery) (*entity.InvoicePage, error)
}

// Options configures a Controller
type Options struct {
	// Filters overrides DefaultFilters(Now())
	Filters *FilterState
	// ClearOnError blanks the rows when a fetch fails instead of keeping the last good page
	ClearOnError bool
	// Scope decorates the context of every fetch, e.g. with the owner of the list
	Scope  func(context.Context) context.Context
	Logger *zap.Logger
	Now    func() time.Time
}

// ResultPage is one computed list state. It is never mutated after publication.
type ResultPage struct {
	Seq              uint64                 `json:"seq"`
	Filters          FilterState            `json:"filters"`
	Rows             []entity.Invoice       `json:"rows"`
	TotalCount       int64                  `json:"total_count"`
	TotalPages       int                    `json:"total_pages"`
	StartIndex       int64                  `json:"start_index"`
	EndIndex         int64                  `json:"end_index"`
	Summary          *entity.InvoiceSummary `json:"summary"`
	TotalDailyAmount decimal.Decimal        `json:"total_daily_amount"`
	// Stale is set when the last fetch failed and Rows belong to an earlier result.
	// Filters and the indexes then describe those rows; Requested holds the query that failed.
	Stale     bool         `json:"stale"`
	Requested *FilterState `json:"requested_filters,omitempty"`
	Error     string       `json:"error,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Controller owns the filter inputs and the latest ResultPage
type Controller struct {
	fetcher      Fetcher
	log          *zap.Logger
	now          func() time.Time
	scope        func(context.Context) context.Context
	clearOnError bool

	mu          sync.Mutex
	filters     FilterState
	seq         uint64
	current     *ResultPage
	subscribers map[int]chan *ResultPage
	nextSubID   int
	closed      bool
}

// NewController creates a list controller; no fetch happens until the first read or write
func NewController(fetcher Fetcher, opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	filters := DefaultFilters(now())
	if opts.Filters != nil {
		filters = *opts.Filters
		if filters.Page < 1 {
			filters.Page = 1
		}
		if filters.PageSize < 1 {
			filters.PageSize = pagination.DefaultPerPage
		}
		if filters.Method == "" {
			filters.Method = enum.PaymentMethodAll
		}
	}

	return &Controller{
		fetcher:      fetcher,
		log:          log,
		now:          now,
		scope:        opts.Scope,
		clearOnError: opts.ClearOnError,
		filters:      filters,
		subscribers:  make(map[int]chan *ResultPage),
	}
}

// Filters returns the latest written filter values, which may be ahead of Current()
func (c *Controller) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

// Current returns the most recent page, fetching only if nothing has been computed yet
func (c *Controller) Current(ctx context.Context) *ResultPage {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()

	if current != nil {
		return current
	}
	return c.recompute(ctx)
}

// Peek returns the most recent page without ever fetching; nil before the first result
func (c *Controller) Peek() *ResultPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetSearch updates the free-text term and returns to the first page
func (c *Controller) SetSearch(ctx context.Context, search string) (*ResultPage, error) {
	return c.Apply(ctx, Patch{Search: &search})
}

// SetFrom updates the first day of the range and returns to the first page
func (c *Controller) SetFrom(ctx context.Context, day string) (*ResultPage, error) {
	return c.Apply(ctx, Patch{From: &day})
}

// SetTo updates the last day of the range and returns to the first page
func (c *Controller) SetTo(ctx context.Context, day string) (*ResultPage, error) {
	return c.Apply(ctx, Patch{To: &day})
}

// SetMethod updates the payment-method selector and returns to the first page
func (c *Controller) SetMethod(ctx context.Context, method enum.PaymentMethod) (*ResultPage, error) {
	return c.Apply(ctx, Patch{Method: &method})
}

// SetStatus updates the status selector ("" = any) and returns to the first page
func (c *Controller) SetStatus(ctx context.Context, status enum.InvoiceStatus) (*ResultPage, error) {
	return c.Apply(ctx, Patch{Status: &status})
}

// SetPageSize changes the page size and returns to the first page
func (c *Controller) SetPageSize(ctx context.Context, size int) (*ResultPage, error) {
	return c.Apply(ctx, Patch{PageSize: &size})
}

// Apply writes several fields at once and issues a single fetch for the combined change.
// A patch that changes nothing returns the current page without fetching.
func (c *Controller) Apply(ctx context.Context, p Patch) (*ResultPage, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	next, filterChanged := c.filters.apply(p)
	if err := next.dateRangeError(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if !filterChanged && next.Page != c.filters.Page && !c.pageInRangeLocked(next.Page) {
		next.Page = c.filters.Page
	}
	if next == c.filters && c.current != nil {
		current := c.current
		c.mu.Unlock()
		return current, nil
	}
	c.filters = next
	c.mu.Unlock()

	return c.recompute(ctx), nil
}

// GoToPage moves to page n. It is a no-op outside 1..TotalPages().
func (c *Controller) GoToPage(ctx context.Context, n int) (*ResultPage, bool) {
	c.mu.Lock()
	if !c.pageInRangeLocked(n) || (n == c.filters.Page && c.current != nil) {
		current := c.current
		c.mu.Unlock()
		return current, false
	}
	c.filters.Page = n
	c.mu.Unlock()

	return c.recompute(ctx), true
}

// NextPage moves one page forward when possible
func (c *Controller) NextPage(ctx context.Context) (*ResultPage, bool) {
	return c.GoToPage(ctx, c.Filters().Page+1)
}

// PrevPage moves one page back when possible
func (c *Controller) PrevPage(ctx context.Context) (*ResultPage, bool) {
	return c.GoToPage(ctx, c.Filters().Page-1)
}

// Refresh re-issues the current combined query, e.g. after a mutation or a push event
func (c *Controller) Refresh(ctx context.Context) *ResultPage {
	return c.recompute(ctx)
}

// TotalCount is the number of invoices matching the filters
func (c *Controller) TotalCount() int64 {
	if p := c.Peek(); p != nil {
		return p.TotalCount
	}
	return 0
}

// TotalPages is ceil(TotalCount/PageSize), at least 1
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

// StartIndex is the 1-based position of the first row on the current page
func (c *Controller) StartIndex() int64 {
	if p := c.Peek(); p != nil {
		return p.StartIndex
	}
	return 0
}

// EndIndex is the 1-based position of the last row on the current page
func (c *Controller) EndIndex() int64 {
	if p := c.Peek(); p != nil {
		return p.EndIndex
	}
	return 0
}

// TotalRevenue is the summary revenue over the whole filtered set
func (c *Controller) TotalRevenue() decimal.Decimal {
	if p := c.Peek(); p != nil && p.Summary != nil {
		return p.Summary.TotalRevenue
	}
	return decimal.Zero
}

// TotalCash is the cash share of the filtered set
func (c *Controller) TotalCash() decimal.Decimal {
	if p := c.Peek(); p != nil && p.Summary != nil {
		return p.Summary.TotalCash
	}
	return decimal.Zero
}

// TotalCard is the card share of the filtered set
func (c *Controller) TotalCard() decimal.Decimal {
	if p := c.Peek(); p != nil && p.Summary != nil {
		return p.Summary.TotalCard
	}
	return decimal.Zero
}

// TotalDailyAmount is the summary revenue, or the sum of the page's totals when the summary is missing
func (c *Controller) TotalDailyAmount() decimal.Decimal {
	if p := c.Peek(); p != nil {
		return p.TotalDailyAmount
	}
	return decimal.Zero
}

// Subscribe returns a channel that receives the current page (if any) immediately and
// every later one. Slow readers only ever see the newest page. Call cancel to stop.
func (c *Controller) Subscribe() (<-chan *ResultPage, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan *ResultPage, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	if c.current != nil {
		ch <- c.current
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// Close ends all subscriptions; the controller must not be used afterwards
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}

func (c *Controller) recompute(ctx context.Context) *ResultPage {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	filters := c.filters
	c.mu.Unlock()

	if c.scope != nil {
		ctx = c.scope(ctx)
	}
	page, err := c.fetcher.FetchInvoicePage(ctx, filters.Query())

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.log.Debug("dropping superseded invoice page",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq),
		)
		return c.current
	}

	if err != nil {
		c.log.Warn("invoice list fetch failed",
			zap.Uint64("seq", seq),
			zap.Any("filters", filters),
			zap.Error(err),
		)
		c.current = c.failedPageLocked(seq, filters, err)
	} else {
		c.current = c.buildPage(seq, filters, page)
	}
	c.publishLocked(c.current)
	return c.current
}

func (c *Controller) buildPage(seq uint64, filters FilterState, page *entity.InvoicePage) *ResultPage {
	if page == nil {
		page = &entity.InvoicePage{}
	}
	rows := page.Invoices
	if rows == nil {
		rows = []entity.Invoice{}
	}

	result := &ResultPage{
		Seq:       seq,
		Filters:   filters,
		Rows:      rows,
		Summary:   page.Summary,
		FetchedAt: c.now(),
	}

	switch {
	case page.Summary != nil:
		result.TotalCount = page.Summary.Count
		result.TotalDailyAmount = page.Summary.TotalRevenue
	default:
		result.TotalCount = page.TotalCount
		if result.TotalCount < int64(len(rows)) {
			result.TotalCount = int64(len(rows))
		}
		result.TotalDailyAmount = sumTotals(rows)
	}

	fillIndexes(result)
	return result
}

func (c *Controller) failedPageLocked(seq uint64, filters FilterState, err error) *ResultPage {
	result := &ResultPage{
		Seq:              seq,
		Filters:          filters,
		Rows:             []entity.Invoice{},
		TotalDailyAmount: decimal.Zero,
		Error:            apperror.GetAppError(err).Message,
		FetchedAt:        c.now(),
	}

	if prev := c.current; prev != nil && !c.clearOnError {
		requested := filters
		result.Requested = &requested
		result.Filters = prev.Filters
		result.Rows = prev.Rows
		result.TotalCount = prev.TotalCount
		result.Summary = prev.Summary
		result.TotalDailyAmount = prev.TotalDailyAmount
		result.Stale = true
	}

	fillIndexes(result)
	return result
}

func (c *Controller) publishLocked(page *ResultPage) {
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- page
	}
}

func (c *Controller) totalPagesLocked() int {
	if c.current == nil {
		return 1
	}
	return pagination.TotalPages(c.current.TotalCount, c.filters.PageSize)
}

func (c *Controller) pageInRangeLocked(n int) bool {
	return n >= 1 && n <= c.totalPagesLocked()
}

func fillIndexes(p *ResultPage) {
	p.TotalPages = pagination.TotalPages(p.TotalCount, p.Filters.PageSize)
	p.StartIndex = pagination.StartIndex(p.Filters.Page, p.Filters.PageSize, p.TotalCount)
	p.EndIndex = pagination.EndIndex(p.Filters.Page, p.Filters.PageSize, p.TotalCount)
}

func sumTotals(rows []entity.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Total)
	}
	return total
}
