package invoicelist

import (
	"time"

	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/pagination"
)

// DateLayout is the calendar-day format of the date-range filter
const DateLayout = "2006-01-02"

// FilterState holds the independent inputs of the list query
type FilterState struct {
	Search   string             `json:"search"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Method   enum.PaymentMethod `json:"method"`
	Status   enum.InvoiceStatus `json:"status"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// DefaultFilters is today's invoices, any method and status, first page
func DefaultFilters(today time.Time) FilterState {
	day := today.Format(DateLayout)
	return FilterState{
		From:     day,
		To:       day,
		Method:   enum.PaymentMethodAll,
		Page:     1,
		PageSize: pagination.DefaultPerPage,
	}
}

// Query converts the filters into the combined backend query
func (f FilterState) Query() repository.InvoiceQuery {
	return repository.InvoiceQuery{
		Search:   f.Search,
		From:     f.From,
		To:       f.To,
		Method:   f.Method,
		Status:   f.Status,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
}

// Patch is a partial filter update; nil fields are left untouched
type Patch struct {
	Search   *string             `json:"search"`
	From     *string             `json:"from"`
	To       *string             `json:"to"`
	Method   *enum.PaymentMethod `json:"method"`
	Status   *enum.InvoiceStatus `json:"status"`
	Page     *int                `json:"page"`
	PageSize *int                `json:"page_size"`
}

// IsEmpty reports whether the patch touches no field
func (p Patch) IsEmpty() bool {
	return p.Search == nil && p.From == nil && p.To == nil && p.Method == nil &&
		p.Status == nil && p.Page == nil && p.PageSize == nil
}

// Validate checks the values carried by the patch
func (p Patch) Validate() error {
	var errs []apperror.FieldError

	if p.From != nil && *p.From != "" {
		if _, err := time.Parse(DateLayout, *p.From); err != nil {
			errs = append(errs, apperror.FieldError{Field: "from", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if p.To != nil && *p.To != "" {
		if _, err := time.Parse(DateLayout, *p.To); err != nil {
			errs = append(errs, apperror.FieldError{Field: "to", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if p.Method != nil && !p.Method.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "method", Message: "must be one of all, cash, card, mixed"})
	}
	if p.Status != nil && *p.Status != "" && !p.Status.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "status", Message: "unknown invoice status"})
	}
	if p.PageSize != nil && (*p.PageSize < 1 || *p.PageSize > pagination.MaxPerPage) {
		errs = append(errs, apperror.FieldError{Field: "page_size", Message: "must be between 1 and 100"})
	}

	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// apply returns the filters with the patch applied. Any change to a field other
// than Page sends the list back to the first page, and the patch's Page is ignored.
func (f FilterState) apply(p Patch) (next FilterState, filterChanged bool) {
	next = f
	if p.Search != nil {
		next.Search = *p.Search
	}
	if p.From != nil {
		next.From = *p.From
	}
	if p.To != nil {
		next.To = *p.To
	}
	if p.Method != nil {
		next.Method = *p.Method
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.PageSize != nil {
		next.PageSize = *p.PageSize
	}

	filterChanged = next.Search != f.Search || next.From != f.From || next.To != f.To ||
		next.Method != f.Method || next.Status != f.Status || next.PageSize != f.PageSize
	if filterChanged {
		next.Page = 1
	} else if p.Page != nil {
		next.Page = *p.Page
	}
	return next, filterChanged
}

// dateRangeError flags an inverted range
func (f FilterState) dateRangeError() error {
	if f.From == "" || f.To == "" {
		return nil
	}
	from, errFrom := time.Parse(DateLayout, f.From)
	to, errTo := time.Parse(DateLayout, f.To)
	if errFrom != nil || errTo != nil || !from.After(to) {
		return nil
	}
	return apperror.NewFieldError("to", "must not be before from")
}

// Validate checks a complete filter set, e.g. one taken from query parameters
func (f FilterState) Validate() error {
	page, size := f.Page, f.PageSize
	p := Patch{Search: &f.Search, From: &f.From, To: &f.To, Method: &f.Method, Status: &f.Status, PageSize: &size}
	if err := p.Validate(); err != nil {
		return err
	}
	if page < 1 {
		return apperror.NewFieldError("page", "must be at least 1")
	}
	return f.dateRangeError()
}
