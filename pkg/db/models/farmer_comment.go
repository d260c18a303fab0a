package models

import (
	"time"

	"github.com/google/uuid"
)

// FarmerComment is an append-only note left on a farmer's profile by a buyer.
type FarmerComment struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FarmerEmail string    `gorm:"column:farmer_email;not null;index"`
	AuthorEmail string    `gorm:"column:author_email;not null"`
	Content     string    `gorm:"column:content;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
