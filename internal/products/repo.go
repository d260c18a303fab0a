package products

import (
	"context"

	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

// Repository defines persistence operations for listings and farmer comments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.ListedProduct) (*models.ListedProduct, error)
	FindByID(ctx context.Context, id int64) (*models.ListedProduct, error)
	ListAll(ctx context.Context) ([]models.ListedProduct, error)
	ListByFarmer(ctx context.Context, farmerEmail string) ([]models.ListedProduct, error)
	Delete(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, comment *models.FarmerComment) (*models.FarmerComment, error)
	ListCommentsByFarmers(ctx context.Context, farmerEmails []string) (map[string][]models.FarmerComment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, listing *models.ListedProduct) (*models.ListedProduct, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.ListedProduct, error) {
	var listing models.ListedProduct
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.ListedProduct, error) {
	var rows []models.ListedProduct
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListByFarmer(ctx context.Context, farmerEmail string) ([]models.ListedProduct, error) {
	var rows []models.ListedProduct
	err := r.db.WithContext(ctx).
		Where("farmer_email = ?", farmerEmail).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ListedProduct{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateComment(ctx context.Context, comment *models.FarmerComment) (*models.FarmerComment, error) {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// ListCommentsByFarmers fetches comments for all the given farmers in a single
// query, keyed by farmer email.
func (r *repository) ListCommentsByFarmers(ctx context.Context, farmerEmails []string) (map[string][]models.FarmerComment, error) {
	byFarmer := make(map[string][]models.FarmerComment, len(farmerEmails))
	if len(farmerEmails) == 0 {
		return byFarmer, nil
	}

	var rows []models.FarmerComment
	err := r.db.WithContext(ctx).
		Where("farmer_email IN ?", farmerEmails).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		byFarmer[row.FarmerEmail] = append(byFarmer[row.FarmerEmail], row)
	}
	return byFarmer, nil
}
