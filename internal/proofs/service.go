package proofs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
	"github.com/agrilinkhq/agrilink-backend/pkg/storage/gcs"
)

type orderFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Order, error)
}

// Service defines proof upload and retrieval.
type Service interface {
	Upload(ctx context.Context, actor orders.Actor, input UploadInput) (*ProofDTO, error)
	Retrieve(ctx context.Context, actor orders.Actor, orderID int64) (*ProofDTO, error)
}

type service struct {
	repo     Repository
	orders   orderFinder
	storage  gcs.Uploader
	maxBytes int64
}

// ServiceParams bundles the dependencies for the proofs service.
type ServiceParams struct {
	Repo           Repository
	Orders         orderFinder
	Storage        gcs.Uploader
	MaxUploadBytes int64
}

// NewService builds a proofs service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("proofs repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order finder required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("storage uploader required")
	}
	if params.MaxUploadBytes <= 0 {
		params.MaxUploadBytes = 10 << 20
	}
	return &service{
		repo:     params.Repo,
		orders:   params.Orders,
		storage:  params.Storage,
		maxBytes: params.MaxUploadBytes,
	}, nil
}

func (s *service) Upload(ctx context.Context, actor orders.Actor, input UploadInput) (*ProofDTO, error) {
	// All preconditions are checked before any storage or database work.
	if strings.TrimSpace(actor.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	if input.File == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.Size > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.BuyerEmail != actor.Email {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the order's buyer can upload a proof")
	}

	key := objectKey(input.OrderID, input.FileName)
	url, err := s.storage.Upload(ctx, key, input.ContentType, input.File)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store proof file")
	}

	proof := &models.ProofOfPayment{
		OrderID:    input.OrderID,
		ProofURL:   url,
		UploadedAt: time.Now(),
	}
	// Replace, never append: the unique order key makes re-upload an update.
	saved, err := s.repo.Upsert(ctx, proof)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save proof record")
	}

	return toDTO(saved), nil
}

func (s *service) Retrieve(ctx context.Context, actor orders.Actor, orderID int64) (*ProofDTO, error) {
	if strings.TrimSpace(actor.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}

	proof, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The expected empty state: no proof uploaded yet. Callers tell
			// this apart from transport failures by the NOT_FOUND code.
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "proof not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load proof")
	}
	return toDTO(proof), nil
}

func objectKey(orderID int64, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("proofs/%d/%s%s", orderID, uuid.NewString(), ext)
}

func toDTO(proof *models.ProofOfPayment) *ProofDTO {
	return &ProofDTO{
		OrderID:    proof.OrderID,
		ProofURL:   proof.ProofURL,
		UploadedAt: proof.UploadedAt,
	}
}
