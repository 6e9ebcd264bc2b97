package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
    t.Helper()
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    s, err := tok.SignedString([]byte(testSecret))
    require.NoError(t, err)
    return s
}

func runChain(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    handler := mw(func(c echo.Context) error {
        return c.String(http.StatusOK, "ok")
    })
    _ = handler(c)
    return rec, c
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "42", "role": RoleCustomer}))

    rec, c := runChain(JWTAuth(testSecret), req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(42), UserID(c))
    assert.Equal(t, RoleCustomer, c.Get("role"))
}

func TestJWTAuthAcceptsNumericSubject(t *testing.T) {
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": 42, "role": RoleStaff}))

    rec, c := runChain(JWTAuth(testSecret), req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint64(42), UserID(c))
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
    cases := []struct {
        name   string
        header string
    }{
        {"missing header", ""},
        {"not bearer", "Basic abc"},
        {"garbage token", "Bearer not.a.jwt"},
        {"zero subject", "Bearer " + func() string {
            tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "0"})
            s, _ := tok.SignedString([]byte(testSecret))
            return s
        }()},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/", nil)
            if tc.header != "" {
                req.Header.Set("Authorization", tc.header)
            }
            rec, _ := runChain(JWTAuth(testSecret), req)
            assert.Equal(t, http.StatusUnauthorized, rec.Code)
        })
    }
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
    s, err := tok.SignedString([]byte("other-secret"))
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("Authorization", "Bearer "+s)
    rec, _ := runChain(JWTAuth(testSecret), req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
    e := echo.New()

    run := func(role interface{}, allowed ...string) int {
        req := httptest.NewRequest(http.MethodGet, "/", nil)
        rec := httptest.NewRecorder()
        c := e.NewContext(req, rec)
        if role != nil {
            c.Set("role", role)
        }
        handler := RequireRole(allowed...)(func(c echo.Context) error {
            return c.String(http.StatusOK, "ok")
        })
        _ = handler(c)
        return rec.Code
    }

    assert.Equal(t, http.StatusOK, run(RoleStaff, RoleStaff, RoleAdmin))
    assert.Equal(t, http.StatusForbidden, run(RoleCustomer, RoleStaff, RoleAdmin))
    assert.Equal(t, http.StatusForbidden, run(nil, RoleStaff))
    assert.Equal(t, http.StatusForbidden, run(123, RoleStaff))
}

func TestAPIKeyAuthGrantsStaff(t *testing.T) {
    hash, err := bcrypt.GenerateFromPassword([]byte("counter-key"), bcrypt.MinCost)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("X-API-Key", "counter-key")
    rec, c := runChain(APIKeyAuth(string(hash), testSecret), req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, RoleStaff, c.Get("role"))
    assert.Equal(t, uint64(0), UserID(c))
}

func TestAPIKeyAuthRejectsWrongKey(t *testing.T) {
    hash, err := bcrypt.GenerateFromPassword([]byte("counter-key"), bcrypt.MinCost)
    require.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("X-API-Key", "wrong")
    rec, _ := runChain(APIKeyAuth(string(hash), testSecret), req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAuthFallsThroughToJWT(t *testing.T) {
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    req.Header.Set("Authorization", "Bearer "+signedToken(t, jwt.MapClaims{"sub": "9", "role": RoleAdmin}))

    rec, c := runChain(APIKeyAuth("", testSecret), req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, RoleAdmin, c.Get("role"))
    assert.Equal(t, uint64(9), UserID(c))
}
