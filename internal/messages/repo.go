package messages

import (
	"context"

	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/pagination"
)

// Repository defines persistence operations for the chat feed.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.ChatMessage, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a messages repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, message *models.ChatMessage) (*models.ChatMessage, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// List returns messages newest-first. A zero limit returns the full feed; a
// cursor resumes after the given (timestamp, id) pair.
func (r *repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC")

	if cursor != nil {
		query = query.Where(
			"timestamp < ? OR (timestamp = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.ChatMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
