package middleware

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/domain/entities"
	"github.com/johnquangdev/meeting-insights/pkg/jwt"
)

// Echo context keys set by EchoAuth
const (
	UserKey      = "user"
	UserIDKey    = "user_id"
	PrincipalKey = "principal"
)

// TokenVerifier validates identity-provider bearer tokens
type TokenVerifier interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// UserLookup resolves the local user mirrored from the identity provider
type UserLookup interface {
	FindByExternalID(ctx context.Context, externalID string) (*entities.User, error)
}

// EchoAuth returns an Echo middleware that validates the bearer token, loads the
// local user by token subject and sets "user", "user_id" and "principal" into the Echo context
func EchoAuth(verifier TokenVerifier, users UserLookup, logger *zap.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return errors.ErrUnauthenticated()
			}

			claims, err := verifier.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return errors.ErrTokenExpired()
				}
				return errors.ErrInvalidToken()
			}

			user, err := users.FindByExternalID(c.Request().Context(), claims.Subject)
			if err != nil {
				if stdErrors.Is(err, entities.ErrUserNotFound) {
					return errors.ErrUserNotFound()
				}
				logger.Error("failed to load authenticated user",
					zap.String("external_id", claims.Subject),
					zap.Error(err),
				)
				return errors.ErrInternal(err)
			}

			c.Set(UserKey, user)
			c.Set(UserIDKey, user.ID)
			c.Set(PrincipalKey, user.Principal())

			return next(c)
		}
	}
}

// RequireRole rejects principals holding none of the given roles with 403
func RequireRole(roles ...entities.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := GetPrincipal(c)
			if !ok {
				return errors.ErrUnauthenticated()
			}
			if !principal.HasRole(roles...) {
				return errors.ErrPermissionDenied("insufficient role")
			}
			return next(c)
		}
	}
}

// GetPrincipal retrieves the principal set by EchoAuth
func GetPrincipal(c echo.Context) (entities.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(entities.Principal)
	return p, ok
}

// GetUser retrieves the user set by EchoAuth
func GetUser(c echo.Context) (*entities.User, bool) {
	u, ok := c.Get(UserKey).(*entities.User)
	return u, ok
}

// GetUserID retrieves the user id set by EchoAuth
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey).(uuid.UUID)
	return id, ok
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// session cookie fallback used by the dashboard
	if cookie, err := c.Cookie("__session"); err == nil {
		return cookie.Value
	}
	return ""
}
