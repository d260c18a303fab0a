package proofs

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

// Repository defines persistence operations for proof-of-payment records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, proof *models.ProofOfPayment) (*models.ProofOfPayment, error)
	FindByOrderID(ctx context.Context, orderID int64) (*models.ProofOfPayment, error)
	FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]models.ProofOfPayment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a proofs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert writes the proof for an order, replacing any previous one. At most
// one proof exists per order.
func (r *repository) Upsert(ctx context.Context, proof *models.ProofOfPayment) (*models.ProofOfPayment, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proof_url", "uploaded_at"}),
		}).
		Create(proof).Error
	if err != nil {
		return nil, err
	}
	return proof, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID int64) (*models.ProofOfPayment, error) {
	var proof models.ProofOfPayment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&proof).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

// FindByOrderIDs returns the proofs for a batch of orders keyed by order id.
// Missing orders are simply absent from the map.
func (r *repository) FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64]models.ProofOfPayment, error) {
	out := make(map[int64]models.ProofOfPayment, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	var rows []models.ProofOfPayment
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OrderID] = row
	}
	return out, nil
}
