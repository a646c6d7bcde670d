package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.UserRole
	Verified bool
	JTI      string
}

// AccessTokenClaims represents the typed JWT presented by clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	Role     enums.UserRole `json:"role"`
	Verified bool           `json:"verified"`
	jwt.RegisteredClaims
}
