package entity

import (
	"time"

	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ReceiptHeader is the branch letterhead printed above every receipt
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// Receipt is composed from an invoice at print time and never stored
type Receipt struct {
	Header        ReceiptHeader      `json:"header"`
	InvoiceNo     string             `json:"invoice_no"`
	IssuedAt      time.Time          `json:"issued_at"`
	PrintedAt     time.Time          `json:"printed_at"`
	Cashier       string             `json:"cashier,omitempty"`
	Customer      string             `json:"customer,omitempty"`
	PlateNumber   string             `json:"plate_number,omitempty"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	Status        enum.InvoiceStatus `json:"status"`
	Items         []InvoiceItem      `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	Printed       bool               `json:"printed"`
}
