package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies backend push events
type NotificationType string

const (
	// NotificationDeletionProcessed is pushed once an invoice deletion request is approved or rejected
	NotificationDeletionProcessed NotificationType = "deletion_processed"
	NotificationInfo              NotificationType = "info"
)

// Notification is a push event kept on a staff session
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	InvoiceID *int64           `json:"invoice_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
