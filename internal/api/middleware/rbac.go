package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authkit/identity-api/internal/api/metrics"
	"github.com/authkit/identity-api/internal/core/domain"
)

// RBAC enforces the role-gate declared for a route. An empty required set
// admits any authenticated principal. Ownership checks are not handled here;
// they belong to the operation itself, which knows the target id.
func RBAC(requiredRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			if d := domain.Authorize(p, domain.RequireRoles(requiredRoles...)); !d.Allowed {
				metrics.AuthzDenialsTotal.WithLabelValues("role").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
