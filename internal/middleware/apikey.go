package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "golang.org/x/crypto/bcrypt"
)

// APIKeyAuth lets box-office terminals authenticate with a static
// X-API-Key header instead of a user JWT. The key is compared against
// a bcrypt hash from configuration, so the plaintext key never lives
// on the server. A matching key is granted the STAFF role with no
// user identity (user_id 0).
//
// When a Bearer token is present the request falls through to JWTAuth
// untouched, so both schemes can guard the same route group.
func APIKeyAuth(keyHash, jwtSecret string) echo.MiddlewareFunc {
    jwtFallback := JWTAuth(jwtSecret)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        withJWT := jwtFallback(next)
        return func(c echo.Context) error {
            key := c.Request().Header.Get("X-API-Key")
            if key == "" {
                return withJWT(c)
            }
            if keyHash == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "api key auth is not configured"})
            }
            if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid api key"})
            }
            c.Set("user_id", uint64(0))
            c.Set("role", RoleStaff)
            return next(c)
        }
    }
}
