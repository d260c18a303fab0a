package models

import (
	"time"

	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Order ties a buyer to a farmer's produce. The dual status axes are
// intentionally independent: fulfillment (Status) and settlement
// (PaymentStatus) move separately.
type Order struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductType   string              `gorm:"column:product_type;not null"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	PricePerUnit  decimal.Decimal     `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(14,2);not null"`
	FarmerEmail   string              `gorm:"column:farmer_email;not null;index"`
	BuyerEmail    string              `gorm:"column:buyer_email;not null;index"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'PENDING'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'PENDING'"`
	OrderTime     time.Time           `gorm:"column:order_time;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
