// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cloudburst/config"
	"cloudburst/internal/domain/service"
)

const tokenIssuer = "cloudburst"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret []byte        // Secret key for signing access tokens.
	ttl    time.Duration // Time-to-live for access tokens.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.Auth == nil || cfg.Auth.SecretKey == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &jwtService{
		secret: []byte(cfg.Auth.SecretKey),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// GenerateToken creates a signed HS256 access token for subject.
func (s *jwtService) GenerateToken(subject string, roles []string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := service.Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// ValidateToken checks signature, issuer and expiry and returns the claims.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	return claims, nil
}
