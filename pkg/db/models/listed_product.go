package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListedProduct is a farmer's marketplace listing.
type ListedProduct struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	FarmerEmail  string          `gorm:"column:farmer_email;not null;index"`
	ProductType  string          `gorm:"column:product_type;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	PricePerUnit decimal.Decimal `gorm:"column:price_per_unit;type:numeric(12,2);not null"`
	Location     *string         `gorm:"column:location"`
	Availability *string         `gorm:"column:availability"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
