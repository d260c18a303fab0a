package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is an append-only entry in the shared marketplace feed.
type ChatMessage struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SenderEmail string    `gorm:"column:sender_email;not null" json:"senderEmail"`
	Content     string    `gorm:"column:content;not null" json:"content"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;index" json:"timestamp"`
}
