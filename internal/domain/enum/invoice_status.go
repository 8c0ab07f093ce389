package enum

import "fmt"

// InvoiceStatus is the backend lifecycle code of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid          InvoiceStatus = "unpaid"
	InvoiceStatusPaid            InvoiceStatus = "paid"
	InvoiceStatusCancelled       InvoiceStatus = "cancelled"
	InvoiceStatusPendingDeletion InvoiceStatus = "pending_deletion"
	InvoiceStatusDeleted         InvoiceStatus = "deleted"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid, InvoiceStatusCancelled,
		InvoiceStatusPendingDeletion, InvoiceStatusDeleted:
		return true
	}
	return false
}

// ParseInvoiceStatus accepts an empty string as "any status"
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	if s == "" {
		return "", nil
	}
	status := InvoiceStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", s)
	}
	return status, nil
}
