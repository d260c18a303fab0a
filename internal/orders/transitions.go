package orders

import (
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

// allowedOrderTransitions is the single source of truth for the order status
// axis. COMPLETED and CANCELLED are terminal: no entry leaves them.
var allowedOrderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
	},
	enums.OrderStatusCompleted: {},
	enums.OrderStatusCancelled: {},
}

// CheckOrderTransition validates a move on the order axis, returning a
// STATE_CONFLICT error when the transition is not allowed.
func CheckOrderTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	for _, candidate := range allowedOrderTransitions[from] {
		if candidate == to {
			return nil
		}
	}
	if from.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed")
}

// CheckPaymentConfirmation validates the payment axis move to PAID. The
// payment axis is independent of the order axis: confirming stays possible on
// a cancelled order, it only requires an uploaded proof.
//
// Returns (alreadyPaid, error): callers treat alreadyPaid as a no-op success.
func CheckPaymentConfirmation(current enums.PaymentStatus, hasProof bool) (bool, error) {
	if current == enums.PaymentStatusPaid {
		return true, nil
	}
	if !hasProof {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict, "payment cannot be confirmed without a proof of payment")
	}
	return false, nil
}
