package repository

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
)

// InvoiceQuery is the combined list query sent to the backend.
// From and To are inclusive calendar days (YYYY-MM-DD); an empty Status means any status.
type InvoiceQuery struct {
	Search   string             `json:"search"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Method   enum.PaymentMethod `json:"method"`
	Status   enum.InvoiceStatus `json:"status"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// InvoiceGateway is the backend surface for invoices
type InvoiceGateway interface {
	FetchInvoicePage(ctx context.Context, query InvoiceQuery) (*entity.InvoicePage, error)
	GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error)
	PayInvoice(ctx context.Context, id int64, payment entity.Payment) error
	AdjustInvoice(ctx context.Context, id int64, adjustment entity.Adjustment) error
	RequestInvoiceDeletion(ctx context.Context, id int64, reason string) error
}
