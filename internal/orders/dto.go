package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

// Actor identifies the authenticated party performing an operation. It is
// always built from the verified JWT claims, never from request bodies.
type Actor struct {
	Email string
	Role  enums.PartyRole
}

// CreateOrderRequest is the payload a buyer submits to place an order.
type CreateOrderRequest struct {
	ProductType  string          `json:"product_type" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"required"`
	FarmerEmail  string          `json:"farmer_email" validate:"required,email"`
}

// OrderSummary is the order representation returned by list and detail reads.
// HasProof/ProofURL come from the batched proof lookup.
type OrderSummary struct {
	ID            int64               `json:"id"`
	ProductType   string              `json:"product_type"`
	Quantity      int                 `json:"quantity"`
	PricePerUnit  decimal.Decimal     `json:"price_per_unit"`
	TotalPrice    decimal.Decimal     `json:"total_price"`
	FarmerEmail   string              `json:"farmer_email"`
	BuyerEmail    string              `json:"buyer_email"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	OrderTime     time.Time           `json:"order_time"`
	HasProof      bool                `json:"has_proof"`
	ProofURL      *string             `json:"proof_url,omitempty"`
}

// OrderList wraps the orders returned for a party.
type OrderList struct {
	Orders []OrderSummary `json:"orders"`
}

// OrderCreatedEvent is emitted when a buyer places an order.
type OrderCreatedEvent struct {
	OrderID      int64           `json:"order_id"`
	ProductType  string          `json:"product_type"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	FarmerEmail  string          `json:"farmer_email"`
	BuyerEmail   string          `json:"buyer_email"`
}

// OrderStatusEvent is emitted when an order or payment status changes.
type OrderStatusEvent struct {
	OrderID       int64               `json:"order_id"`
	FarmerEmail   string              `json:"farmer_email"`
	BuyerEmail    string              `json:"buyer_email"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
}
