package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/core/domain"
)

// RBAC lets the request through only when the token's role is one of
// allowedRoles. Sellers reaching an admin route get 403, never 401.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get(CtxRole).(string)
			role := domain.Role(raw)
			if !role.Valid() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "unknown role"})
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "role " + raw + " may not perform this operation"})
			}
			return next(c)
		}
	}
}
