package entity

import (
	"time"

	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Invoice is the list projection of a backend invoice.
// Total is expected to equal Subtotal - Discount; the backend enforces it.
type Invoice struct {
	ID            int64              `json:"id"`
	InvoiceNo     string             `json:"invoice_no"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	PlateNumber   *string            `json:"plate_number,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Status        enum.InvoiceStatus `json:"status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Cost          *decimal.Decimal   `json:"cost,omitempty"`
	Profit        *decimal.Decimal   `json:"profit,omitempty"`
	ItemsSummary  string             `json:"items_summary"`
	Items         []InvoiceItem      `json:"items"`
	CashierID     int64              `json:"cashier_id,omitempty"`
	IssuedAt      time.Time          `json:"issued_at"`
}

// IsPayable reports whether a payment can still be recorded
func (i *Invoice) IsPayable() bool {
	return i.Status == enum.InvoiceStatusUnpaid
}

// IsDeletable reports whether a deletion request can be filed
func (i *Invoice) IsDeletable() bool {
	return i.Status == enum.InvoiceStatusUnpaid || i.Status == enum.InvoiceStatusPaid
}

// InvoiceItem is a single invoice line
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceSummary aggregates the whole filtered set, not just the current page
type InvoiceSummary struct {
	Count        int64           `json:"count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCash    decimal.Decimal `json:"total_cash"`
	TotalCard    decimal.Decimal `json:"total_card"`
}

// InvoicePage is one backend response to an invoice list query.
// Summary is nil when the backend omits it.
type InvoicePage struct {
	Invoices   []Invoice       `json:"data"`
	TotalCount int64           `json:"total_count"`
	Summary    *InvoiceSummary `json:"summary"`
}

// Payment records how an unpaid invoice is settled
type Payment struct {
	Method     enum.PaymentMethod `json:"payment_method"`
	CashAmount decimal.Decimal    `json:"cash_amount"`
	CardAmount decimal.Decimal    `json:"card_amount"`
}

// Adjustment overrides an invoice total
type Adjustment struct {
	Total  decimal.Decimal `json:"total"`
	Reason string          `json:"reason"`
}
