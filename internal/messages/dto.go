package messages

import (
	"time"

	"github.com/google/uuid"
)

// PostMessageRequest is the payload for appending to the chat feed.
type PostMessageRequest struct {
	SenderEmail string `json:"senderEmail" validate:"required,email"`
	Content     string `json:"content" validate:"required"`
}

// MessageDTO mirrors the stored chat message shape.
type MessageDTO struct {
	ID          uuid.UUID `json:"id"`
	SenderEmail string    `json:"senderEmail"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
}

// MessageList wraps the newest-first feed plus the next page cursor when a
// limit was applied.
type MessageList struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
