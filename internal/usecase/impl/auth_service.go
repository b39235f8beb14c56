package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"cloudburst/config"
	deliverycontext "cloudburst/internal/delivery/context"
	domainerrors "cloudburst/internal/domain/errors"
	"cloudburst/internal/domain/service"
	"cloudburst/internal/usecase"

	"go.uber.org/fx"
)

const (
	adminRole       = "admin"
	bearerTokenType = "Bearer"
)

type authService struct {
	cfg          *config.AuthConfig
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	Config       *config.Config
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	cfg := params.Config.Auth
	if cfg == nil {
		cfg = &config.AuthConfig{}
	}

	return &authService{
		cfg:          cfg,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

func (s *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerFrom(ctx, s.logger)
}

func (s *authService) Enabled() bool {
	return s.cfg.Enabled
}

// Login checks the admin credentials and issues an access token.
func (s *authService) Login(ctx context.Context, username, password string) (*usecase.TokenResult, error) {
	userMatches := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUser)) == 1
	if s.cfg.AdminPasswordHash == "" || !userMatches || !s.hasher.Check(password, s.cfg.AdminPasswordHash) {
		s.log(ctx).Warn("Rejected admin login", slog.String("username", username))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.GenerateToken(username, []string{adminRole})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Admin logged in", slog.String("username", username))

	return &usecase.TokenResult{
		AccessToken: token,
		TokenType:   bearerTokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*service.Claims, error) {
	if token == "" {
		return nil, domainerrors.ErrUnauthorized
	}

	claims, err := s.tokenService.ValidateToken(token)
	if err != nil {
		s.log(ctx).Debug("Rejected access token", slog.Any("error", err))

		return nil, domainerrors.ErrUnauthorized.WithDetails(err.Error())
	}

	return claims, nil
}
