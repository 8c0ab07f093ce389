package service

import (
	"context"
	"strings"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/export"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// exportPageSize is the backend page size used while collecting an export
const exportPageSize = pagination.MaxPerPage

const maxExportPages = 500

// InvoiceService serves the invoice list and the invoice mutations
type InvoiceService struct {
	invoices repository.InvoiceGateway
	log      *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(invoices repository.InvoiceGateway, log *zap.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, log: log}
}

// InvoiceListResult is one stateless list response
type InvoiceListResult struct {
	Invoices   []entity.Invoice       `json:"invoices"`
	Pagination *pagination.Pagination `json:"pagination"`
	Summary    *entity.InvoiceSummary `json:"summary"`
}

// List runs a one-off list query without touching any session state
func (s *InvoiceService) List(ctx context.Context, filters invoicelist.FilterState) (*InvoiceListResult, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	page, err := s.invoices.FetchInvoicePage(ctx, filters.Query())
	if err != nil {
		return nil, err
	}

	total := page.TotalCount
	if page.Summary != nil {
		total = page.Summary.Count
	}
	if n := int64(len(page.Invoices)); total < n {
		total = n
	}

	rows := page.Invoices
	if rows == nil {
		rows = []entity.Invoice{}
	}
	return &InvoiceListResult{
		Invoices:   rows,
		Pagination: pagination.NewPagination(filters.Page, filters.PageSize, total),
		Summary:    page.Summary,
	}, nil
}

// View returns the session's current list page, computing it on first use
func (s *InvoiceService) View(ctx context.Context, sess *session.Context) (*invoicelist.ResultPage, error) {
	list := sess.InvoiceList()
	if list == nil {
		return nil, apperror.ErrSessionClosed
	}
	return list.Current(ctx), nil
}

// UpdateView writes any subset of the filters and recomputes once
func (s *InvoiceService) UpdateView(ctx context.Context, sess *session.Context, patch invoicelist.Patch) (*invoicelist.ResultPage, error) {
	list := sess.InvoiceList()
	if list == nil {
		return nil, apperror.ErrSessionClosed
	}
	return list.Apply(ctx, patch)
}

// GoToPage moves the session's list; the bool is false when n is out of range
func (s *InvoiceService) GoToPage(ctx context.Context, sess *session.Context, n int) (*invoicelist.ResultPage, bool, error) {
	list := sess.InvoiceList()
	if list == nil {
		return nil, false, apperror.ErrSessionClosed
	}
	// the page range is only known once a result exists
	list.Current(ctx)
	page, moved := list.GoToPage(ctx, n)
	return page, moved, nil
}

// OpenModal records which dialog the cashier has open over the list
func (s *InvoiceService) OpenModal(ctx context.Context, sess *session.Context, kind session.ModalKind, invoiceID int64) (session.ModalState, error) {
	if kind == session.ModalNone || !kind.IsValid() {
		return session.ModalState{}, apperror.NewFieldError("kind", "unknown dialog")
	}
	if invoiceID <= 0 {
		return session.ModalState{}, apperror.NewFieldError("invoice_id", "is required")
	}
	sess.OpenModal(kind, invoiceID)
	return sess.Modal(), nil
}

// CloseModal clears the dialog flag
func (s *InvoiceService) CloseModal(sess *session.Context) {
	sess.CloseModal()
}

// PayInput settles an unpaid invoice. CashAmount is only read for mixed payments.
type PayInput struct {
	Method     enum.PaymentMethod
	CashAmount *decimal.Decimal
}

// AdjustInput overrides an invoice total
type AdjustInput struct {
	Total  decimal.Decimal
	Reason string
}

// MutationResult is returned by every successful invoice mutation
type MutationResult struct {
	Invoice *entity.Invoice         `json:"invoice,omitempty"`
	List    *invoicelist.ResultPage `json:"list,omitempty"`
	Modal   session.ModalState      `json:"modal"`
}

// Pay records a payment. Mixed payments must split the total into a positive
// cash part smaller than the total; this is checked before calling the backend.
func (s *InvoiceService) Pay(ctx context.Context, sess *session.Context, id int64, input PayInput) (*MutationResult, error) {
	if !input.Method.IsSettlement() {
		return nil, apperror.NewFieldError("method", "must be one of cash, card, mixed")
	}

	invoice, err := s.lookup(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !invoice.IsPayable() {
		return nil, apperror.NewConflictError("Invoice is not awaiting payment")
	}

	payment := entity.Payment{Method: input.Method}
	switch input.Method {
	case enum.PaymentMethodCash:
		payment.CashAmount = invoice.Total
		payment.CardAmount = decimal.Zero
	case enum.PaymentMethodCard:
		payment.CashAmount = decimal.Zero
		payment.CardAmount = invoice.Total
	case enum.PaymentMethodMixed:
		if input.CashAmount == nil {
			return nil, apperror.NewFieldError("cash_amount", "is required for mixed payments")
		}
		cash := *input.CashAmount
		if !cash.IsPositive() || cash.GreaterThanOrEqual(invoice.Total) {
			return nil, apperror.NewFieldError("cash_amount", "must be greater than 0 and less than the invoice total")
		}
		payment.CashAmount = cash
		payment.CardAmount = invoice.Total.Sub(cash)
	}

	if err := s.invoices.PayInvoice(ctx, id, payment); err != nil {
		s.log.Warn("invoice payment failed", zap.Int64("invoice_id", id), zap.Error(err))
		return nil, err
	}
	return s.afterMutation(ctx, sess, id)
}

// Adjust overrides the total of an invoice; the new total must not be negative
func (s *InvoiceService) Adjust(ctx context.Context, sess *session.Context, id int64, input AdjustInput) (*MutationResult, error) {
	var errs []apperror.FieldError
	if input.Total.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "total", Message: "must not be negative"})
	}
	if strings.TrimSpace(input.Reason) == "" {
		errs = append(errs, apperror.FieldError{Field: "reason", Message: "is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	adjustment := entity.Adjustment{Total: input.Total.Round(2), Reason: strings.TrimSpace(input.Reason)}
	if err := s.invoices.AdjustInvoice(ctx, id, adjustment); err != nil {
		s.log.Warn("invoice adjustment failed", zap.Int64("invoice_id", id), zap.Error(err))
		return nil, err
	}
	return s.afterMutation(ctx, sess, id)
}

// RequestDeletion files a deletion request; the backend decides asynchronously
func (s *InvoiceService) RequestDeletion(ctx context.Context, sess *session.Context, id int64, reason string) (*MutationResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.NewFieldError("reason", "is required")
	}

	if err := s.invoices.RequestInvoiceDeletion(ctx, id, reason); err != nil {
		s.log.Warn("invoice deletion request failed", zap.Int64("invoice_id", id), zap.Error(err))
		return nil, err
	}
	return s.afterMutation(ctx, sess, id)
}

// Export renders every invoice matching the filters as a workbook
func (s *InvoiceService) Export(ctx context.Context, filters invoicelist.FilterState) ([]byte, error) {
	filters.Page = 1
	filters.PageSize = exportPageSize
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	var (
		rows    [][]interface{}
		summary *entity.InvoiceSummary
		total   = decimal.Zero
	)
	for {
		page, err := s.invoices.FetchInvoicePage(ctx, filters.Query())
		if err != nil {
			return nil, err
		}
		if summary == nil {
			summary = page.Summary
		}
		for _, inv := range page.Invoices {
			rows = append(rows, invoiceRow(inv))
			total = total.Add(inv.Total)
		}
		if len(page.Invoices) < filters.PageSize ||
			(page.TotalCount > 0 && int64(len(rows)) >= page.TotalCount) ||
			filters.Page >= maxExportPages {
			break
		}
		filters.Page++
	}

	footer := []interface{}{"", "", "", "", "", "Total", total.StringFixed(2)}
	if summary != nil {
		footer = []interface{}{"", "", "", "", "", "Total", summary.TotalRevenue.StringFixed(2)}
	}

	return export.WriteXLSX(export.Table{
		Sheet:   "Invoices",
		Headers: []string{"Invoice", "Issued", "Customer", "Plate", "Method", "Status", "Total"},
		Rows:    rows,
		Footer:  footer,
	})
}

func invoiceRow(inv entity.Invoice) []interface{} {
	plate := ""
	if inv.PlateNumber != nil {
		plate = *inv.PlateNumber
	}
	return []interface{}{
		inv.InvoiceNo,
		inv.IssuedAt.Format("2006-01-02 15:04"),
		inv.CustomerName,
		plate,
		inv.PaymentMethod.String(),
		string(inv.Status),
		inv.Total.StringFixed(2),
	}
}

// lookup prefers the row already on screen and only asks the backend when it is not there
func (s *InvoiceService) lookup(ctx context.Context, sess *session.Context, id int64) (*entity.Invoice, error) {
	if list := sess.ActiveInvoiceList(); list != nil {
		if page := list.Peek(); page != nil {
			for i := range page.Rows {
				if page.Rows[i].ID == id {
					inv := page.Rows[i]
					return &inv, nil
				}
			}
		}
	}
	return s.invoices.GetInvoice(ctx, id)
}

// afterMutation refreshes the session's list and closes the dialog
func (s *InvoiceService) afterMutation(ctx context.Context, sess *session.Context, id int64) (*MutationResult, error) {
	result := &MutationResult{}
	if list := sess.ActiveInvoiceList(); list != nil {
		result.List = list.Refresh(ctx)
	}
	sess.CloseModal()
	result.Modal = sess.Modal()

	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		s.log.Debug("could not reload invoice after mutation", zap.Int64("invoice_id", id), zap.Error(err))
	} else {
		result.Invoice = invoice
	}
	return result, nil
}
