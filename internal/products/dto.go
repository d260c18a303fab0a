package products

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrilinkhq/agrilink-backend/pkg/db/models"
)

// AddProductRequest is the payload a farmer submits to list a product.
type AddProductRequest struct {
	ProductType  string          `json:"product_type" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"required"`
	Location     *string         `json:"location,omitempty"`
	Availability *string         `json:"availability,omitempty"`
}

// AddCommentRequest is the payload for a comment on a farmer's profile.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentDTO is a single comment on a farmer's profile.
type CommentDTO struct {
	ID          string    `json:"id"`
	FarmerEmail string    `json:"farmer_email"`
	AuthorEmail string    `json:"author_email"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductDTO is a listing together with the comments left on its farmer.
type ProductDTO struct {
	ID           int64           `json:"id"`
	FarmerEmail  string          `json:"farmer_email"`
	ProductType  string          `json:"product_type"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Location     *string         `json:"location,omitempty"`
	Availability *string         `json:"availability,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Comments     []CommentDTO    `json:"comments"`
}

// ProductList wraps the listings returned by the list endpoints.
type ProductList struct {
	Products []ProductDTO `json:"products"`
}

func commentFromModel(row models.FarmerComment) CommentDTO {
	return CommentDTO{
		ID:          row.ID.String(),
		FarmerEmail: row.FarmerEmail,
		AuthorEmail: row.AuthorEmail,
		Content:     row.Content,
		CreatedAt:   row.CreatedAt,
	}
}

func productFromModel(row models.ListedProduct, comments []models.FarmerComment) ProductDTO {
	dto := ProductDTO{
		ID:           row.ID,
		FarmerEmail:  row.FarmerEmail,
		ProductType:  row.ProductType,
		Quantity:     row.Quantity,
		PricePerUnit: row.PricePerUnit,
		Location:     row.Location,
		Availability: row.Availability,
		CreatedAt:    row.CreatedAt,
		Comments:     make([]CommentDTO, 0, len(comments)),
	}
	for _, comment := range comments {
		dto.Comments = append(dto.Comments, commentFromModel(comment))
	}
	return dto
}
