package handler

import (
	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler prints invoice receipts on the branch printer
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Status reports whether a printer is configured and reachable
// @Router /printer/status [get]
func (h *ReceiptHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.Status(c.Request.Context()))
}

// Print sends the receipt of a paid invoice to the printer.
// The receipt is returned even when the printer fails so the client can render it.
// @Router /invoices/{id}/receipt [post]
func (h *ReceiptHandler) Print(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.Print(c.Request.Context(), sess, id)
	if err != nil {
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	if !receipt.Printed {
		response.OK(c, "Receipt generated, no printer configured", gin.H{"receipt": receipt})
		return
	}
	response.OK(c, "Receipt printed", gin.H{"receipt": receipt})
}
