package enum

import "fmt"

// PaymentMethod selects how an invoice was (or will be) settled.
// PaymentMethodAll is only meaningful as a list filter.
type PaymentMethod string

const (
	PaymentMethodAll   PaymentMethod = "all"
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodMixed PaymentMethod = "mixed"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is a known filter value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodAll, PaymentMethodCash, PaymentMethodCard, PaymentMethodMixed:
		return true
	}
	return false
}

// IsSettlement reports whether m can be used to pay an invoice
func (m PaymentMethod) IsSettlement() bool {
	return m.IsValid() && m != PaymentMethodAll
}

// ParsePaymentMethod maps an empty string to PaymentMethodAll
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	if s == "" {
		return PaymentMethodAll, nil
	}
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}
