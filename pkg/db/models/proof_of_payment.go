package models

import "time"

// ProofOfPayment stores the single uploaded payment proof for an order.
// The unique order id key plus upsert semantics guarantee replace-not-append.
type ProofOfPayment struct {
	OrderID    int64     `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	ProofURL   string    `gorm:"column:proof_url;not null"`
	UploadedAt time.Time `gorm:"column:uploaded_at;not null"`
}
