package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for admin access tokens.
// The admin username is carried in the registered "sub" claim.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
type TokenService interface {
	// GenerateToken creates an access token for subject.
	GenerateToken(subject string, roles []string) (token string, expiresAt time.Time, err error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)
}
