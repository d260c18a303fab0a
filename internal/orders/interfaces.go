package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Order, error)
	ListByFarmer(ctx context.Context, farmerEmail string) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, status enums.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id int64, status enums.PaymentStatus) error
	Delete(ctx context.Context, id int64) error
}
