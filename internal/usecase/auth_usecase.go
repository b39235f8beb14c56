package usecase

import (
	"context"
	"time"

	"cloudburst/internal/domain/service"
)

// TokenResult is an issued admin access token
type TokenResult struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// AuthUsecase defines admin authentication
type AuthUsecase interface {
	// Enabled reports whether mutating routes require a token
	Enabled() bool

	Login(ctx context.Context, username, password string) (*TokenResult, error)
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}
