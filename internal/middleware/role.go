package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Roles carried in the JWT "role" claim. CUSTOMER books seats, STAFF
// manages tickets and layouts, ADMIN additionally manages showtimes
// and promotions.
const (
    RoleCustomer = "CUSTOMER"
    RoleStaff    = "STAFF"
    RoleAdmin    = "ADMIN"
)

// RequireRole aborts with 403 unless the authenticated role is one of
// the given roles. It must run after JWTAuth (or APIKeyAuth, which
// grants STAFF).
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}
