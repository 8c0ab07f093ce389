package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// AddInvoices stores invoices, assigning IDs to those without one.
// Paid invoices get a payment record matching their method.
func (s *Store) AddInvoices(invoices ...entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range invoices {
		inv := invoices[i]
		if inv.ID == 0 {
			s.nextInvoiceID++
			inv.ID = s.nextInvoiceID
		} else if inv.ID > s.nextInvoiceID {
			s.nextInvoiceID = inv.ID
		}
		if inv.Status == "" {
			inv.Status = enum.InvoiceStatusUnpaid
		}
		if inv.IssuedAt.IsZero() {
			inv.IssuedAt = s.now()
		}
		if inv.Status == enum.InvoiceStatusPaid {
			s.payments[inv.ID] = splitPayment(inv.PaymentMethod, inv.Total, inv.Total.Div(decimal.NewFromInt(2)).Round(2))
		}
		s.invoices[inv.ID] = &inv
	}
}

func splitPayment(method enum.PaymentMethod, total, cash decimal.Decimal) entity.Payment {
	switch method {
	case enum.PaymentMethodCard:
		return entity.Payment{Method: method, CashAmount: decimal.Zero, CardAmount: total}
	case enum.PaymentMethodMixed:
		return entity.Payment{Method: method, CashAmount: cash, CardAmount: total.Sub(cash)}
	}
	return entity.Payment{Method: enum.PaymentMethodCash, CashAmount: total, CardAmount: decimal.Zero}
}

func matchesInvoice(inv *entity.Invoice, q repository.InvoiceQuery) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		haystack := []string{inv.InvoiceNo, inv.CustomerName, inv.CustomerPhone}
		if inv.PlateNumber != nil {
			haystack = append(haystack, *inv.PlateNumber)
		}
		found := false
		for _, h := range haystack {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	day := inv.IssuedAt.Format(dateLayout)
	if q.From != "" && day < q.From {
		return false
	}
	if q.To != "" && day > q.To {
		return false
	}
	if q.Method != "" && q.Method != enum.PaymentMethodAll && inv.PaymentMethod != q.Method {
		return false
	}
	if q.Status != "" && inv.Status != q.Status {
		return false
	}
	return true
}

func countsTowardRevenue(status enum.InvoiceStatus) bool {
	return status != enum.InvoiceStatusCancelled && status != enum.InvoiceStatusDeleted
}

func (s *Store) FetchInvoicePage(ctx context.Context, q repository.InvoiceQuery) (*entity.InvoicePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*entity.Invoice, 0)
	summary := &entity.InvoiceSummary{}
	for _, inv := range s.invoices {
		if !matchesInvoice(inv, q) {
			continue
		}
		matched = append(matched, inv)
		summary.Count++
		if countsTowardRevenue(inv.Status) {
			summary.TotalRevenue = summary.TotalRevenue.Add(inv.Total)
		}
		if p, ok := s.payments[inv.ID]; ok && countsTowardRevenue(inv.Status) {
			summary.TotalCash = summary.TotalCash.Add(p.CashAmount)
			summary.TotalCard = summary.TotalCard.Add(p.CardAmount)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].IssuedAt.Equal(matched[j].IssuedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].IssuedAt.After(matched[j].IssuedAt)
	})

	params := pagination.PaginationParams{Page: q.Page, PerPage: q.PageSize}
	params.Validate()
	start := params.Offset()
	end := start + params.PerPage
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	rows := make([]entity.Invoice, 0, end-start)
	for _, inv := range matched[start:end] {
		rows = append(rows, *inv)
	}

	return &entity.InvoicePage{
		Invoices:   rows,
		TotalCount: int64(len(matched)),
		Summary:    summary,
	}, nil
}

func (s *Store) GetInvoice(_ context.Context, id int64) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	cp := *inv
	return &cp, nil
}

func (s *Store) PayInvoice(_ context.Context, id int64, payment entity.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return apperror.NewNotFoundError("Invoice")
	}
	if !inv.IsPayable() {
		return apperror.NewConflictError("Invoice is not awaiting payment")
	}
	if !payment.Method.IsSettlement() {
		return apperror.NewFieldError("payment_method", "unsupported payment method")
	}
	if payment.Method == enum.PaymentMethodMixed &&
		(!payment.CashAmount.IsPositive() || payment.CashAmount.GreaterThanOrEqual(inv.Total)) {
		return apperror.NewFieldError("cash_amount", "must be between 0 and the invoice total")
	}

	s.payments[id] = splitPayment(payment.Method, inv.Total, payment.CashAmount)
	inv.PaymentMethod = payment.Method
	inv.Status = enum.InvoiceStatusPaid
	return nil
}

func (s *Store) AdjustInvoice(_ context.Context, id int64, adj entity.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return apperror.NewNotFoundError("Invoice")
	}
	if adj.Total.IsNegative() {
		return apperror.NewFieldError("total", "must not be negative")
	}
	if inv.Status != enum.InvoiceStatusUnpaid && inv.Status != enum.InvoiceStatusPaid {
		return apperror.NewConflictError("Invoice can no longer be adjusted")
	}

	if adj.Total.GreaterThan(inv.Subtotal) {
		inv.Subtotal = adj.Total
	}
	inv.Discount = inv.Subtotal.Sub(adj.Total)
	inv.Total = adj.Total
	if inv.Cost != nil {
		profit := adj.Total.Sub(*inv.Cost)
		inv.Profit = &profit
	}
	if p, ok := s.payments[id]; ok {
		s.payments[id] = splitPayment(p.Method, adj.Total, decimal.Min(p.CashAmount, adj.Total))
	}
	return nil
}

func (s *Store) RequestInvoiceDeletion(_ context.Context, id int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return apperror.NewNotFoundError("Invoice")
	}
	if !inv.IsDeletable() {
		return apperror.NewConflictError("A deletion request is already pending or the invoice is closed")
	}
	s.preDeletion[id] = inv.Status
	inv.Status = enum.InvoiceStatusPendingDeletion
	return nil
}

// ProcessDeletion settles a pending deletion request the way a backend admin would
func (s *Store) ProcessDeletion(id int64, approve bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return apperror.NewNotFoundError("Invoice")
	}
	if inv.Status != enum.InvoiceStatusPendingDeletion {
		return apperror.NewConflictError("Invoice has no pending deletion request")
	}
	if approve {
		inv.Status = enum.InvoiceStatusDeleted
	} else {
		inv.Status = s.preDeletion[id]
	}
	delete(s.preDeletion, id)
	return nil
}
