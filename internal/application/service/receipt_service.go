package service

import (
	"context"
	"strconv"
	"time"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/printer"
	"go.uber.org/zap"
)

// ReceiptService lays out paid invoices for the branch receipt printer
type ReceiptService struct {
	invoices repository.InvoiceGateway
	printer  printer.Printer
	header   entity.ReceiptHeader
	width    int
	log      *zap.Logger
	now      func() time.Time
}

func NewReceiptService(
	invoices repository.InvoiceGateway,
	p printer.Printer,
	header entity.ReceiptHeader,
	width int,
	log *zap.Logger,
) *ReceiptService {
	if p == nil {
		p = printer.Discard{}
	}
	return &ReceiptService{
		invoices: invoices,
		printer:  p,
		header:   header,
		width:    width,
		log:      log,
		now:      time.Now,
	}
}

type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Ready      bool   `json:"ready"`
	Type       string `json:"type"`
}

func (s *ReceiptService) Status(ctx context.Context) PrinterStatus {
	return PrinterStatus{
		Configured: s.printer.Kind() != printer.KindNone,
		Ready:      s.printer.Ready(ctx),
		Type:       s.printer.Kind(),
	}
}

// Print builds the receipt of a paid invoice and sends it to the printer.
// A printer failure still returns the receipt together with the error so the caller can show it on screen.
func (s *ReceiptService) Print(ctx context.Context, sess *session.Context, id int64) (*entity.Receipt, error) {
	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != enum.InvoiceStatusPaid {
		return nil, apperror.NewConflictError("Only paid invoices have a receipt")
	}

	receipt := s.compose(invoice, sess)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.log.Warn("receipt not printed",
			zap.Int64("invoice_id", id),
			zap.String("printer", s.printer.Kind()),
			zap.Error(err),
		)
		return receipt, err
	}
	receipt.Printed = s.printer.Kind() != printer.KindNone
	return receipt, nil
}

func (s *ReceiptService) compose(inv *entity.Invoice, sess *session.Context) *entity.Receipt {
	r := &entity.Receipt{
		Header:        s.header,
		InvoiceNo:     inv.InvoiceNo,
		IssuedAt:      inv.IssuedAt,
		PrintedAt:     s.now(),
		Customer:      inv.CustomerName,
		PaymentMethod: inv.PaymentMethod,
		Status:        inv.Status,
		Items:         inv.Items,
		Subtotal:      inv.Subtotal,
		Discount:      inv.Discount,
		Total:         inv.Total,
	}
	if inv.PlateNumber != nil {
		r.PlateNumber = *inv.PlateNumber
	}
	if id, ok := sess.Identity(); ok {
		r.Cashier = id.Name
	}
	return r
}

// FormatReceipt renders r as an ESC/POS stream for paper of the given character width
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.Center).Bold(true).Large(true).
		Line(r.Header.StoreName).
		Large(false).Bold(false)
	for _, line := range []string{r.Header.Address, r.Header.Phone} {
		if line != "" {
			doc.Line(line)
		}
	}
	if r.Header.TaxID != "" {
		doc.Line("Tax ID: " + r.Header.TaxID)
	}

	doc.Align(printer.Left).Rule().
		Columns("Invoice", r.InvoiceNo).
		Columns("Date", r.IssuedAt.Format("2006-01-02 15:04"))
	if r.Cashier != "" {
		doc.Columns("Cashier", r.Cashier)
	}
	if r.Customer != "" {
		doc.Columns("Customer", r.Customer)
	}
	if r.PlateNumber != "" {
		doc.Columns("Plate", r.PlateNumber)
	}
	doc.Rule()

	for _, item := range r.Items {
		doc.Columns(strconv.Itoa(item.Quantity)+"x "+item.Description, item.LineTotal.StringFixed(2))
	}
	doc.Rule().Columns("Subtotal", r.Subtotal.StringFixed(2))
	if !r.Discount.IsZero() {
		doc.Columns("Discount", "-"+r.Discount.StringFixed(2))
	}
	doc.Bold(true).Columns("TOTAL", r.Total.StringFixed(2)).Bold(false).
		Columns("Paid by", r.PaymentMethod.String()).
		Rule().
		Align(printer.Center).
		Line("Thank you").
		Cut()

	return doc.Bytes()
}
