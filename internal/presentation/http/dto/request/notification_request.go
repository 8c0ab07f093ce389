package request

import "github.com/forto/backoffice/internal/domain/entity"

// NotificationHookRequest is a push event from the backend
type NotificationHookRequest struct {
	Type       entity.NotificationType `json:"type" binding:"required"`
	Message    string                  `json:"message" binding:"required"`
	InvoiceID  *int64                  `json:"invoice_id"`
	EmployeeID *int64                  `json:"employee_id"`
}
