package middleware

import "github.com/labstack/echo/v4"

const (
	HeaderUserRole      = "X-User-Role"
	HeaderUserPartnerID = "X-User-Partner-Id"

	ContextKeyRole      = "role"
	ContextKeyPartnerID = "partner_id"
)

// Tenant copies the caller-supplied role and tenant headers into the echo
// context. Both are hints used for routing only; they are never trusted for
// authorisation.
func Tenant() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			c.Set(ContextKeyRole, h.Get(HeaderUserRole))
			c.Set(ContextKeyPartnerID, h.Get(HeaderUserPartnerID))
			return next(c)
		}
	}
}

// TenantHints returns the values stored by Tenant.
func TenantHints(c echo.Context) (role, partnerID string) {
	role, _ = c.Get(ContextKeyRole).(string)
	partnerID, _ = c.Get(ContextKeyPartnerID).(string)
	return role, partnerID
}
