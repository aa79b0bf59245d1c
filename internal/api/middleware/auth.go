package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/licensehub/console-gateway/internal/core/domain"
)

// ContextKeyToken is the echo context key holding the caller's bearer token.
const ContextKeyToken = "token"

// RequireBearer rejects requests without an "Authorization: Bearer <token>"
// header. The token is opaque here; the backend decides whether it is valid.
func RequireBearer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return &domain.GatewayError{
					Kind:       domain.KindAuthMissing,
					StatusCode: http.StatusUnauthorized,
					Message:    "Unauthorized - No token provided",
				}
			}

			c.Set(ContextKeyToken, token)
			return next(c)
		}
	}
}

// Token returns the bearer token stored by RequireBearer, or "".
func Token(c echo.Context) string {
	token, _ := c.Get(ContextKeyToken).(string)
	return token
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
