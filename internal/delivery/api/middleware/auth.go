package middleware

import (
	"strings"

	"cloudburst/internal/delivery/api/response"
	deliverycontext "cloudburst/internal/delivery/context"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
}

// AuthMiddleware guards admin routes with a bearer token.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{authUC: params.AuthUC}
}

// Authenticate validates the access token and stores the admin username.
// When authentication is disabled every request passes as the default admin.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.authUC.Enabled() {
			return next(c)
		}

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		token, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok {
			return response.Unauthorized(c, "INVALID_TOKEN_FORMAT", "Invalid token format, must be Bearer token")
		}

		claims, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			return response.HandleAppError(c, err)
		}

		deliverycontext.SetOperator(c, claims.Subject)

		return next(c)
	}
}
