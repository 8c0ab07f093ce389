package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/forto/backoffice/internal/application/invoicelist"
	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/forto/backoffice/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles the invoice list and invoice mutations
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func filtersFromQuery(q request.InvoiceListQuery) invoicelist.FilterState {
	f := invoicelist.FilterState{
		Search:   q.Search,
		From:     q.From,
		To:       q.To,
		Method:   enum.PaymentMethod(q.Method),
		Status:   enum.InvoiceStatus(q.Status),
		Page:     q.Page,
		PageSize: q.PerPage,
	}
	if f.Method == "" {
		f.Method = enum.PaymentMethodAll
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.PageSize == 0 {
		f.PageSize = pagination.DefaultPerPage
	}
	return f
}

// List runs a one-off filtered query
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var q request.InvoiceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.invoiceService.List(c.Request.Context(), filtersFromQuery(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoices retrieved", result)
}

// Export downloads every invoice matching the query as a workbook
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	var q request.InvoiceListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	data, err := h.invoiceService.Export(c.Request.Context(), filtersFromQuery(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Spreadsheet(c, "invoices-"+time.Now().Format("20060102")+".xlsx", data)
}

// View returns the session's live list page
// @Router /invoices/view [get]
func (h *InvoiceHandler) View(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	page, err := h.invoiceService.View(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice list retrieved", gin.H{"list": page, "modal": sess.Modal()})
}

// UpdateView changes any subset of the session's filters
// @Router /invoices/view [patch]
func (h *InvoiceHandler) UpdateView(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	var patch invoicelist.Patch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	page, err := h.invoiceService.UpdateView(c.Request.Context(), sess, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice list updated", gin.H{"list": page, "modal": sess.Modal()})
}

// GoToPage moves the session's list; out-of-range pages leave it where it is
// @Router /invoices/view/page [put]
func (h *InvoiceHandler) GoToPage(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	var req request.GoToPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	page, moved, err := h.invoiceService.GoToPage(c.Request.Context(), sess, req.Page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice list page", gin.H{"list": page, "moved": moved})
}

// OpenModal records the dialog open over the list
// @Router /invoices/view/modal [post]
func (h *InvoiceHandler) OpenModal(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	var req request.OpenModalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	modal, err := h.invoiceService.OpenModal(c.Request.Context(), sess, session.ModalKind(req.Kind), req.InvoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dialog opened", modal)
}

// CloseModal clears the dialog flag
// @Router /invoices/view/modal [delete]
func (h *InvoiceHandler) CloseModal(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	h.invoiceService.CloseModal(sess)
	c.Status(http.StatusNoContent)
}

// Pay settles an invoice
// @Router /invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.invoiceService.Pay(c.Request.Context(), sess, id, service.PayInput{
		Method:     req.Method,
		CashAmount: req.CashAmount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice paid", result)
}

// Adjust overrides an invoice total
// @Router /invoices/{id}/adjust [post]
func (h *InvoiceHandler) Adjust(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.AdjustInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.invoiceService.Adjust(c.Request.Context(), sess, id, service.AdjustInput{
		Total:  *req.Total,
		Reason: req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice adjusted", result)
}

// RequestDeletion files a deletion request for an admin to process
// @Router /invoices/{id}/deletion-request [post]
func (h *InvoiceHandler) RequestDeletion(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req request.DeletionRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.invoiceService.RequestDeletion(c.Request.Context(), sess, id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, "Deletion requested", result)
}
