package middleware

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// JWTAuth validates a Bearer access token issued by the identity
// service and stores the numeric subject and the role claim in the
// request context under "user_id" and "role". Tokens must be HS256
// signed with the shared secret.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            uid, ok := subjectID(claims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
            }
            role, _ := claims["role"].(string)

            c.Set("user_id", uid)
            c.Set("role", role)
            return next(c)
        }
    }
}

// subjectID reads the token subject as a numeric user ID. Identity
// issues "sub" either as a JSON number or a decimal string.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
    switch v := claims["sub"].(type) {
    case float64:
        if v < 1 {
            return 0, false
        }
        return uint64(v), true
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        if err != nil || n == 0 {
            return 0, false
        }
        return n, true
    }
    return 0, false
}

// UserID returns the authenticated user's ID from the context, or 0
// when the request is unauthenticated.
func UserID(c echo.Context) uint64 {
    if v, ok := c.Get("user_id").(uint64); ok {
        return v
    }
    return 0
}
