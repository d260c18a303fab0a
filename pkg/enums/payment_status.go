package enums

import "fmt"

// PaymentStatus tracks the settlement lifecycle of an order, independently of
// the fulfillment axis.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var paymentStatusSet = map[PaymentStatus]struct{}{
	PaymentStatusPending:   {},
	PaymentStatusPaid:      {},
	PaymentStatusCancelled: {},
	PaymentStatusRefunded:  {},
}

func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	_, ok := paymentStatusSet[p]
	return ok
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	status := PaymentStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status %q", value)
	}
	return status, nil
}
