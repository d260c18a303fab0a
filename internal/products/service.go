package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrilinkhq/agrilink-backend/internal/orders"
	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	pkgerrors "github.com/agrilinkhq/agrilink-backend/pkg/errors"
)

type farmerFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service defines the product listing and farmer comment operations.
type Service interface {
	ListAll(ctx context.Context, actor orders.Actor) (*ProductList, error)
	ListMine(ctx context.Context, actor orders.Actor) (*ProductList, error)
	Add(ctx context.Context, actor orders.Actor, req AddProductRequest) (*ProductDTO, error)
	Delete(ctx context.Context, actor orders.Actor, productID int64) error
	CommentOnFarmer(ctx context.Context, actor orders.Actor, farmerEmail string, req AddCommentRequest) (*CommentDTO, error)
}

type service struct {
	repo  Repository
	users farmerFinder
}

// ServiceParams bundles the dependencies for the products service.
type ServiceParams struct {
	Repo  Repository
	Users farmerFinder
}

// NewService builds a products service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users lookup required")
	}
	return &service{repo: params.Repo, users: params.Users}, nil
}

// ListAll returns every listing newest-first, each carrying the comments left
// on its farmer. One batched comment lookup covers the whole result.
func (s *service) ListAll(ctx context.Context, actor orders.Actor) (*ProductList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return s.annotate(ctx, rows)
}

func (s *service) ListMine(ctx context.Context, actor orders.Actor) (*ProductList, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.Role != enums.PartyRoleFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers have listings")
	}

	rows, err := s.repo.ListByFarmer(ctx, actor.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own products")
	}
	return s.annotate(ctx, rows)
}

func (s *service) Add(ctx context.Context, actor orders.Actor, req AddProductRequest) (*ProductDTO, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.Role != enums.PartyRoleFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only farmers can add listings")
	}
	if strings.TrimSpace(req.ProductType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product type required")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if req.PricePerUnit.IsNegative() || req.PricePerUnit.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price per unit must be positive")
	}

	listing := &models.ListedProduct{
		FarmerEmail:  actor.Email,
		ProductType:  strings.TrimSpace(req.ProductType),
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		Location:     req.Location,
		Availability: req.Availability,
	}

	created, err := s.repo.Create(ctx, listing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}

	dto := productFromModel(*created, nil)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, actor orders.Actor, productID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if actor.Role != enums.PartyRoleFarmer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only farmers can remove listings")
	}

	listing, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	if listing.FarmerEmail != actor.Email {
		return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another farmer")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete listing")
	}
	return nil
}

// CommentOnFarmer appends a comment to a farmer's profile. Any authenticated
// party may comment, but the target must be an existing farmer account.
func (s *service) CommentOnFarmer(ctx context.Context, actor orders.Actor, farmerEmail string, req AddCommentRequest) (*CommentDTO, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment content required")
	}

	target := strings.ToLower(strings.TrimSpace(farmerEmail))
	if target == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer email required")
	}

	user, err := s.users.FindByEmail(ctx, target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up farmer")
	}
	if user.Role != enums.PartyRoleFarmer {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "farmer not found")
	}

	comment := &models.FarmerComment{
		ID:          uuid.New(),
		FarmerEmail: target,
		AuthorEmail: actor.Email,
		Content:     content,
	}

	created, err := s.repo.CreateComment(ctx, comment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}

	dto := commentFromModel(*created)
	return &dto, nil
}

func (s *service) annotate(ctx context.Context, rows []models.ListedProduct) (*ProductList, error) {
	emails := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.FarmerEmail]; ok {
			continue
		}
		seen[row.FarmerEmail] = struct{}{}
		emails = append(emails, row.FarmerEmail)
	}

	comments, err := s.repo.ListCommentsByFarmers(ctx, emails)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer comments")
	}

	list := &ProductList{Products: make([]ProductDTO, 0, len(rows))}
	for _, row := range rows {
		list.Products = append(list.Products, productFromModel(row, comments[row.FarmerEmail]))
	}
	return list, nil
}

func requireActor(actor orders.Actor) error {
	if strings.TrimSpace(actor.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return nil
}
