package request

import (
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// InvoiceListQuery is the query string of the stateless list and the export
type InvoiceListQuery struct {
	Search  string `form:"search"`
	From    string `form:"from"`
	To      string `form:"to"`
	Method  string `form:"method"`
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// GoToPageRequest moves the session's invoice list
type GoToPageRequest struct {
	Page int `json:"page" binding:"required"`
}

// OpenModalRequest records the dialog opened over the list
type OpenModalRequest struct {
	Kind      string `json:"kind" binding:"required"`
	InvoiceID int64  `json:"invoice_id" binding:"required"`
}

// PayInvoiceRequest settles an invoice
type PayInvoiceRequest struct {
	Method     enum.PaymentMethod `json:"method" binding:"required"`
	CashAmount *decimal.Decimal   `json:"cash_amount"`
}

// AdjustInvoiceRequest overrides an invoice total
type AdjustInvoiceRequest struct {
	Total  *decimal.Decimal `json:"total" binding:"required"`
	Reason string           `json:"reason" binding:"required,max=500"`
}

// DeletionRequestRequest asks an admin to delete an invoice
type DeletionRequestRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
