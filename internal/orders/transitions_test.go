package orders

import (
	"testing"

	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

func TestCheckOrderTransition(t *testing.T) {
	cases := []struct {
		name     string
		from     enums.OrderStatus
		to       enums.OrderStatus
		wantCode pkgerrors.Code
	}{
		{name: "pending to completed", from: enums.OrderStatusPending, to: enums.OrderStatusCompleted},
		{name: "pending to cancelled", from: enums.OrderStatusPending, to: enums.OrderStatusCancelled},
		{name: "completed is terminal", from: enums.OrderStatusCompleted, to: enums.OrderStatusCancelled, wantCode: pkgerrors.CodeStateConflict},
		{name: "cancelled is terminal", from: enums.OrderStatusCancelled, to: enums.OrderStatusCompleted, wantCode: pkgerrors.CodeStateConflict},
		{name: "unknown target", from: enums.OrderStatusPending, to: enums.OrderStatus("SHIPPED"), wantCode: pkgerrors.CodeValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckOrderTransition(tc.from, tc.to)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("expected transition allowed, got %v", err)
				}
				return
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.wantCode {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
		})
	}
}

func TestCheckPaymentConfirmation(t *testing.T) {
	if _, err := CheckPaymentConfirmation(enums.PaymentStatusPending, false); err == nil {
		t.Fatal("expected confirmation without proof to be rejected")
	}

	alreadyPaid, err := CheckPaymentConfirmation(enums.PaymentStatusPaid, false)
	if err != nil || !alreadyPaid {
		t.Fatalf("re-confirming a paid order must be a no-op, got alreadyPaid=%v err=%v", alreadyPaid, err)
	}

	alreadyPaid, err = CheckPaymentConfirmation(enums.PaymentStatusPending, true)
	if err != nil || alreadyPaid {
		t.Fatalf("confirmation with proof should pass, got alreadyPaid=%v err=%v", alreadyPaid, err)
	}

	// The payment axis stays independent of the order axis.
	if _, err := CheckPaymentConfirmation(enums.PaymentStatusCancelled, true); err != nil {
		t.Fatalf("confirmation should not depend on the order axis, got %v", err)
	}
}
