package backend

import (
	"context"
	"net/http"
	"strconv"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/domain/repository"
)

// invoiceParams encodes the combined list query. "all" methods and the empty
// status are omitted so the backend applies no filter for them.
func invoiceParams(q repository.InvoiceQuery) map[string]string {
	params := map[string]string{
		"page":      strconv.Itoa(q.Page),
		"page_size": strconv.Itoa(q.PageSize),
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	if q.From != "" {
		params["from"] = q.From
	}
	if q.To != "" {
		params["to"] = q.To
	}
	if q.Method != "" && q.Method != enum.PaymentMethodAll {
		params["payment_method"] = q.Method.String()
	}
	if q.Status != "" {
		params["status"] = string(q.Status)
	}
	return params
}

func (c *Client) FetchInvoicePage(ctx context.Context, query repository.InvoiceQuery) (*entity.InvoicePage, error) {
	var page entity.InvoicePage
	_, err := c.send(c.request(ctx).
		SetQueryParams(invoiceParams(query)).
		SetResult(&page), http.MethodGet, "/api/invoices")
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetInvoice(ctx context.Context, id int64) (*entity.Invoice, error) {
	var invoice entity.Invoice
	_, err := c.send(c.request(ctx).SetResult(&invoice), http.MethodGet, "/api/invoices/"+itoa(id))
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (c *Client) PayInvoice(ctx context.Context, id int64, payment entity.Payment) error {
	_, err := c.send(c.request(ctx).SetBody(payment), http.MethodPost, "/api/invoices/"+itoa(id)+"/pay")
	return err
}

func (c *Client) AdjustInvoice(ctx context.Context, id int64, adjustment entity.Adjustment) error {
	_, err := c.send(c.request(ctx).SetBody(adjustment), http.MethodPost, "/api/invoices/"+itoa(id)+"/adjust")
	return err
}

func (c *Client) RequestInvoiceDeletion(ctx context.Context, id int64, reason string) error {
	body := map[string]string{"reason": reason}
	_, err := c.send(c.request(ctx).SetBody(body), http.MethodPost, "/api/invoices/"+itoa(id)+"/deletion-request")
	return err
}
