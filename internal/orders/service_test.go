package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/outbox"
)

var (
	farmerActor = Actor{Email: "farmer@x.test", Role: enums.PartyRoleFarmer}
	buyerActor  = Actor{Email: "buyer@x.test", Role: enums.PartyRoleBuyer}
)

func TestCreateComputesTotalAndEmitsEvent(t *testing.T) {
	repo := newStubRepo()
	ob := &stubOutbox{}
	svc := buildOrderService(t, repo, newStubProofs(), ob)

	summary, err := svc.Create(context.Background(), buyerActor, CreateOrderRequest{
		ProductType:  "maize",
		Quantity:     12,
		PricePerUnit: decimal.RequireFromString("2.50"),
		FarmerEmail:  "Farmer@X.test",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !summary.TotalPrice.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected total 30.00, got %s", summary.TotalPrice)
	}
	if summary.FarmerEmail != "farmer@x.test" {
		t.Fatalf("farmer email not normalized: %s", summary.FarmerEmail)
	}
	if summary.Status != enums.OrderStatusPending || summary.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("new order must start pending/pending")
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order.created event, got %+v", ob.events)
	}
}

func TestCreateRejectsFarmerActor(t *testing.T) {
	svc := buildOrderService(t, newStubRepo(), newStubProofs(), &stubOutbox{})

	_, err := svc.Create(context.Background(), farmerActor, CreateOrderRequest{
		ProductType:  "maize",
		Quantity:     1,
		PricePerUnit: decimal.RequireFromString("1.00"),
		FarmerEmail:  "farmer@x.test",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListForFarmerAnnotatesProofsWithOneLookup(t *testing.T) {
	repo := newStubRepo()
	proofs := newStubProofs()
	svc := buildOrderService(t, repo, proofs, &stubOutbox{})

	first := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusPending)
	second := repo.seed(t, "farmer@x.test", "buyer2@x.test", enums.OrderStatusPending)
	proofs.set(first.ID, "https://storage.googleapis.com/b/proofs/1.png")

	list, err := svc.ListForParty(context.Background(), farmerActor)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(list.Orders))
	}
	if proofs.batchCalls != 1 {
		t.Fatalf("expected exactly one batched proof lookup, got %d", proofs.batchCalls)
	}

	byID := map[int64]OrderSummary{}
	for _, o := range list.Orders {
		byID[o.ID] = o
	}
	if !byID[first.ID].HasProof || byID[first.ID].ProofURL == nil {
		t.Fatalf("first order should carry proof annotation")
	}
	if byID[second.ID].HasProof {
		t.Fatalf("second order must not have proof annotation")
	}
}

func TestCollectCompletesPendingOrder(t *testing.T) {
	repo := newStubRepo()
	ob := &stubOutbox{}
	svc := buildOrderService(t, repo, newStubProofs(), ob)

	order := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusPending)

	if err := svc.Collect(context.Background(), farmerActor, order.ID); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if repo.orders[order.ID].Status != enums.OrderStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", repo.orders[order.ID].Status)
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventOrderCollected {
		t.Fatalf("expected order.collected event")
	}
}

func TestCollectOnTerminalOrderLeavesRowUntouched(t *testing.T) {
	repo := newStubRepo()
	svc := buildOrderService(t, repo, newStubProofs(), &stubOutbox{})

	order := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusCancelled)

	err := svc.Collect(context.Background(), farmerActor, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if repo.orders[order.ID].Status != enums.OrderStatusCancelled {
		t.Fatalf("terminal order must not change")
	}
}

func TestCollectRequiresOwningFarmer(t *testing.T) {
	repo := newStubRepo()
	svc := buildOrderService(t, repo, newStubProofs(), &stubOutbox{})

	order := repo.seed(t, "other-farmer@x.test", "buyer@x.test", enums.OrderStatusPending)

	err := svc.Collect(context.Background(), farmerActor, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	err = svc.Collect(context.Background(), buyerActor, order.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("buyers must not collect, got %v", err)
	}
}

func TestConfirmPaymentRequiresProof(t *testing.T) {
	repo := newStubRepo()
	svc := buildOrderService(t, repo, newStubProofs(), &stubOutbox{})

	order := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusPending)

	err := svc.ConfirmPayment(context.Background(), farmerActor, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict without proof, got %v", err)
	}
	if repo.orders[order.ID].PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("payment status must not change")
	}
}

func TestConfirmPaymentSetsPaidAndIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	proofs := newStubProofs()
	ob := &stubOutbox{}
	svc := buildOrderService(t, repo, proofs, ob)

	order := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusPending)
	proofs.set(order.ID, "https://storage.googleapis.com/b/proofs/x.png")

	if err := svc.ConfirmPayment(context.Background(), farmerActor, order.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if repo.orders[order.ID].PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected PAID")
	}
	if len(ob.events) != 1 || ob.events[0].EventType != enums.EventOrderPaymentConfirmed {
		t.Fatalf("expected payment_confirmed event")
	}

	// Second confirmation is a silent no-op: no extra event.
	if err := svc.ConfirmPayment(context.Background(), farmerActor, order.ID); err != nil {
		t.Fatalf("re-confirm must be a no-op, got %v", err)
	}
	if len(ob.events) != 1 {
		t.Fatalf("no-op confirmation must not emit, got %d events", len(ob.events))
	}
}

func TestConfirmPaymentAllowedOnCancelledOrder(t *testing.T) {
	repo := newStubRepo()
	proofs := newStubProofs()
	svc := buildOrderService(t, repo, proofs, &stubOutbox{})

	order := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusCancelled)
	proofs.set(order.ID, "https://storage.googleapis.com/b/proofs/y.png")

	if err := svc.ConfirmPayment(context.Background(), farmerActor, order.ID); err != nil {
		t.Fatalf("payment axis is independent of the order axis, got %v", err)
	}
	if repo.orders[order.ID].PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected PAID on cancelled order")
	}
}

func TestDeleteAllowsEitherParty(t *testing.T) {
	repo := newStubRepo()
	svc := buildOrderService(t, repo, newStubProofs(), &stubOutbox{})

	order := repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusPending)
	if err := svc.Delete(context.Background(), buyerActor, order.ID); err != nil {
		t.Fatalf("buyer delete: %v", err)
	}
	if _, ok := repo.orders[order.ID]; ok {
		t.Fatalf("order should be gone")
	}

	order = repo.seed(t, "farmer@x.test", "buyer@x.test", enums.OrderStatusPending)
	stranger := Actor{Email: "stranger@x.test", Role: enums.PartyRoleBuyer}
	err := svc.Delete(context.Background(), stranger, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}
}

func buildOrderService(t *testing.T, repo *stubRepo, proofs *stubProofs, ob *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Proofs: proofs,
		Tx:     stubTxRunner{},
		Outbox: ob,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubRepo struct {
	orders map[int64]*models.Order
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{orders: map[int64]*models.Order{}, nextID: 1}
}

func (s *stubRepo) seed(t *testing.T, farmer, buyer string, status enums.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		ProductType:   "maize",
		Quantity:      5,
		PricePerUnit:  decimal.RequireFromString("3.00"),
		TotalPrice:    decimal.RequireFromString("15.00"),
		FarmerEmail:   farmer,
		BuyerEmail:    buyer,
		Status:        status,
		PaymentStatus: enums.PaymentStatusPending,
		OrderTime:     time.Now(),
	}
	created, err := s.Create(context.Background(), order)
	if err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return created
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = s.nextID
	s.nextID++
	copied := *order
	s.orders[order.ID] = &copied
	return order, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubRepo) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Order, error) {
	return s.list(func(o *models.Order) bool { return o.BuyerEmail == buyerEmail }), nil
}

func (s *stubRepo) ListByFarmer(ctx context.Context, farmerEmail string) ([]models.Order, error) {
	return s.list(func(o *models.Order) bool { return o.FarmerEmail == farmerEmail }), nil
}

func (s *stubRepo) list(match func(*models.Order) bool) []models.Order {
	var out []models.Order
	for _, order := range s.orders {
		if match(order) {
			out = append(out, *order)
		}
	}
	return out
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error {
	if order, ok := s.orders[id]; ok {
		order.Status = status
	}
	return nil
}

func (s *stubRepo) UpdatePaymentStatus(ctx context.Context, id int64, status enums.PaymentStatus) error {
	if order, ok := s.orders[id]; ok {
		order.PaymentStatus = status
	}
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	delete(s.orders, id)
	return nil
}

type stubProofs struct {
	byOrder    map[int64]models.ProofOfPayment
	batchCalls int
}

func newStubProofs() *stubProofs {
	return &stubProofs{byOrder: map[int64]models.ProofOfPayment{}}
}

func (s *stubProofs) set(orderID int64, url string) {
	s.byOrder[orderID] = models.ProofOfPayment{OrderID: orderID, ProofURL: url, UploadedAt: time.Now()}
}

func (s *stubProofs) FindByOrderID(ctx context.Context, orderID int64) (*models.ProofOfPayment, error) {
	proof, ok := s.byOrder[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &proof, nil
}

func (s *stubProofs) FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]models.ProofOfPayment, error) {
	s.batchCalls++
	out := map[int64]models.ProofOfPayment{}
	for _, id := range orderIDs {
		if proof, ok := s.byOrder[id]; ok {
			out[id] = proof
		}
	}
	return out, nil
}
