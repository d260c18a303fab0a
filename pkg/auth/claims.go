package auth

import (
	"github.com/agrilinkhq/agrilink-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the identity minted into a token.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.PartyRole
}

// AccessTokenClaims is the JWT claim set used across the API.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"uid"`
	Email  string          `json:"email"`
	Role   enums.PartyRole `json:"role"`
	jwt.RegisteredClaims
}
