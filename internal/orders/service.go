package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/metrics"
	"github.com/agrilinkhq/agrilink-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ProofFinder is the read surface of the proofs repository used for order
// annotation and payment confirmation.
type ProofFinder interface {
	FindByOrderID(ctx context.Context, orderID int64) (*models.ProofOfPayment, error)
	FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]models.ProofOfPayment, error)
}

// Service defines the order operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateOrderRequest) (*OrderSummary, error)
	ListForParty(ctx context.Context, actor Actor) (*OrderList, error)
	Get(ctx context.Context, actor Actor, orderID int64) (*OrderSummary, error)
	Collect(ctx context.Context, actor Actor, orderID int64) error
	Cancel(ctx context.Context, actor Actor, orderID int64) error
	ConfirmPayment(ctx context.Context, actor Actor, orderID int64) error
	Delete(ctx context.Context, actor Actor, orderID int64) error
}

type service struct {
	repo    Repository
	proofs  ProofFinder
	tx      txRunner
	outbox  outboxPublisher
	metrics *metrics.OrderMetrics
}

// ServiceParams bundles the dependencies for the orders service.
type ServiceParams struct {
	Repo    Repository
	Proofs  ProofFinder
	Tx      txRunner
	Outbox  outboxPublisher
	Metrics *metrics.OrderMetrics
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Proofs == nil {
		return nil, fmt.Errorf("proof finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    params.Repo,
		proofs:  params.Proofs,
		tx:      params.Tx,
		outbox:  params.Outbox,
		metrics: params.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateOrderRequest) (*OrderSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.Role != enums.PartyRoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only buyers can place orders")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if req.PricePerUnit.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_unit must not be negative")
	}
	farmerEmail := strings.ToLower(strings.TrimSpace(req.FarmerEmail))
	if farmerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer_email is required")
	}

	// Total is fixed at creation and never recomputed afterward.
	total := req.PricePerUnit.Mul(decimal.NewFromInt(int64(req.Quantity)))

	order := &models.Order{
		ProductType:   strings.TrimSpace(req.ProductType),
		Quantity:      req.Quantity,
		PricePerUnit:  req.PricePerUnit,
		TotalPrice:    total,
		FarmerEmail:   farmerEmail,
		BuyerEmail:    actor.Email,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		order = created

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   strconv.FormatInt(order.ID, 10),
			Version:       1,
			Actor:         buildActor(actor),
			Data: OrderCreatedEvent{
				OrderID:     order.ID,
				ProductType: order.ProductType,
				Quantity:    order.Quantity,
				TotalPrice:  order.TotalPrice,
				FarmerEmail: order.FarmerEmail,
				BuyerEmail:  order.BuyerEmail,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	summary := toSummary(*order, nil)
	return &summary, nil
}

func (s *service) ListForParty(ctx context.Context, actor Actor) (*OrderList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var (
		rows []models.Order
		err  error
	)
	switch actor.Role {
	case enums.PartyRoleFarmer:
		rows, err = s.repo.ListByFarmer(ctx, actor.Email)
	case enums.PartyRoleBuyer:
		rows, err = s.repo.ListByBuyer(ctx, actor.Email)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown party role")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	// One batched proof lookup for the whole page, never one per order.
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	proofsByOrder, err := s.proofs.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proofs")
	}

	out := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		var proof *models.ProofOfPayment
		if p, ok := proofsByOrder[row.ID]; ok {
			proofCopy := p
			proof = &proofCopy
		}
		out = append(out, toSummary(row, proof))
	}
	return &OrderList{Orders: out}, nil
}

func (s *service) Get(ctx context.Context, actor Actor, orderID int64) (*OrderSummary, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	order, err := s.loadOwnedOrder(ctx, s.repo, actor, orderID, false)
	if err != nil {
		return nil, err
	}

	var proof *models.ProofOfPayment
	found, err := s.proofs.FindByOrderID(ctx, orderID)
	if err == nil {
		proof = found
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proof")
	}

	summary := toSummary(*order, proof)
	return &summary, nil
}

func (s *service) Collect(ctx context.Context, actor Actor, orderID int64) error {
	return s.transitionOrder(ctx, actor, orderID, enums.OrderStatusCompleted, enums.EventOrderCollected)
}

func (s *service) Cancel(ctx context.Context, actor Actor, orderID int64) error {
	return s.transitionOrder(ctx, actor, orderID, enums.OrderStatusCancelled, enums.EventOrderCanceled)
}

func (s *service) transitionOrder(ctx context.Context, actor Actor, orderID int64, target enums.OrderStatus, eventType enums.OutboxEventType) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != enums.PartyRoleFarmer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the farmer can update order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOwnedOrder(ctx, repo, actor, orderID, true)
		if err != nil {
			return err
		}

		if err := CheckOrderTransition(order.Status, target); err != nil {
			return err
		}

		if err := repo.UpdateStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		s.metrics.IncTransition(order.Status.String(), target.String())
		order.Status = target

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     eventType,
			AggregateType: enums.AggregateOrder,
			AggregateID:   strconv.FormatInt(order.ID, 10),
			Version:       1,
			Actor:         buildActor(actor),
			Data: OrderStatusEvent{
				OrderID:       order.ID,
				FarmerEmail:   order.FarmerEmail,
				BuyerEmail:    order.BuyerEmail,
				Status:        order.Status,
				PaymentStatus: order.PaymentStatus,
			},
		})
	})
}

func (s *service) ConfirmPayment(ctx context.Context, actor Actor, orderID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != enums.PartyRoleFarmer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the farmer can confirm payment")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.loadOwnedOrder(ctx, repo, actor, orderID, true)
		if err != nil {
			return err
		}

		hasProof := true
		if _, err := s.proofs.FindByOrderID(ctx, order.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				hasProof = false
			} else {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proof")
			}
		}

		alreadyPaid, err := CheckPaymentConfirmation(order.PaymentStatus, hasProof)
		if err != nil {
			return err
		}
		if alreadyPaid {
			return nil
		}

		if err := repo.UpdatePaymentStatus(ctx, order.ID, enums.PaymentStatusPaid); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
		}
		s.metrics.IncPaymentTransition(order.PaymentStatus.String(), enums.PaymentStatusPaid.String())
		order.PaymentStatus = enums.PaymentStatusPaid

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPaymentConfirmed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   strconv.FormatInt(order.ID, 10),
			Version:       1,
			Actor:         buildActor(actor),
			Data: OrderStatusEvent{
				OrderID:       order.ID,
				FarmerEmail:   order.FarmerEmail,
				BuyerEmail:    order.BuyerEmail,
				Status:        order.Status,
				PaymentStatus: order.PaymentStatus,
			},
		})
	})
}

func (s *service) Delete(ctx context.Context, actor Actor, orderID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		// Either party on the order may remove it. The proof record stays.
		if _, err := s.loadOwnedOrder(ctx, repo, actor, orderID, false); err != nil {
			return err
		}
		if err := repo.Delete(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}
		return nil
	})
}

// loadOwnedOrder fetches the order and enforces that the actor is a party to
// it. farmerOnly additionally restricts ownership to the farmer side.
func (s *service) loadOwnedOrder(ctx context.Context, repo Repository, actor Actor, orderID int64, farmerOnly bool) (*models.Order, error) {
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if farmerOnly {
		if order.FarmerEmail != actor.Email {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to farmer")
		}
		return order, nil
	}
	if order.FarmerEmail != actor.Email && order.BuyerEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
	}
	return order, nil
}

func requireActor(actor Actor) error {
	if strings.TrimSpace(actor.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !actor.Role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "party role missing")
	}
	return nil
}

func buildActor(actor Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		Email: actor.Email,
		Role:  actor.Role.String(),
	}
}

func toSummary(order models.Order, proof *models.ProofOfPayment) OrderSummary {
	summary := OrderSummary{
		ID:            order.ID,
		ProductType:   order.ProductType,
		Quantity:      order.Quantity,
		PricePerUnit:  order.PricePerUnit,
		TotalPrice:    order.TotalPrice,
		FarmerEmail:   order.FarmerEmail,
		BuyerEmail:    order.BuyerEmail,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		OrderTime:     order.OrderTime,
	}
	if proof != nil {
		summary.HasProof = true
		url := proof.ProofURL
		summary.ProofURL = &url
	}
	return summary
}
