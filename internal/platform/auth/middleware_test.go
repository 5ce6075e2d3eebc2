package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testSigningKey = []byte("test-signing-key-at-least-32-bytes!")

func testConfig() JWTConfig {
	return JWTConfig{
		Issuer:     "https://auth.example.com",
		Audience:   "agendia-api",
		SigningKey: testSigningKey,
	}
}

func mintToken(t *testing.T, key []byte, mutate func(*Claims)) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			Issuer:    "https://auth.example.com",
			Audience:  jwt.ClaimStrings{"agendia-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		TenantID: "clinic1",
		Roles:    []string{RoleAttendant},
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func runJWT(t *testing.T, cfg JWTConfig, authHeader string) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTMiddleware(cfg)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	token := mintToken(t, testSigningKey, nil)
	c, err := runJWT(t, testConfig(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected request accepted, got %v", err)
	}

	if got := c.Get("jwt_tenant_id"); got != "clinic1" {
		t.Errorf("expected tenant clinic1 on the echo context, got %v", got)
	}
	if got := UserIDFromContext(c.Request().Context()); got != "user-123" {
		t.Errorf("expected user ID propagated, got %q", got)
	}
	roles := RolesFromContext(c.Request().Context())
	if len(roles) != 1 || roles[0] != RoleAttendant {
		t.Errorf("expected attendant role propagated, got %v", roles)
	}
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"malformed header", "Bearer"},
		{"garbage token", "Bearer not.a.token"},
		{"wrong key", "Bearer " + mintToken(t, []byte("another-signing-key-32-bytes-long!!"), nil)},
		{"expired", "Bearer " + mintToken(t, testSigningKey, func(c *Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		})},
		{"wrong issuer", "Bearer " + mintToken(t, testSigningKey, func(c *Claims) {
			c.Issuer = "https://other.example.com"
		})},
		{"wrong audience", "Bearer " + mintToken(t, testSigningKey, func(c *Claims) {
			c.Audience = jwt.ClaimStrings{"other-api"}
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runJWT(t, testConfig(), tt.header)
			if err == nil {
				t.Fatal("expected rejection")
			}
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %T", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", httpErr.Code)
			}
		})
	}
}

func TestJWTMiddleware_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}

	_, err = runJWT(t, testConfig(), "Bearer "+unsigned)
	if err == nil {
		t.Fatal("expected alg=none token rejected")
	}
}

func TestJWTMiddleware_OptionalIssuerAudience(t *testing.T) {
	// With no issuer or audience configured, any values in the token pass.
	cfg := JWTConfig{SigningKey: testSigningKey}
	token := mintToken(t, testSigningKey, func(c *Claims) {
		c.Issuer = "https://anything.example.com"
		c.Audience = jwt.ClaimStrings{"whatever"}
	})
	if _, err := runJWT(t, cfg, "Bearer "+token); err != nil {
		t.Errorf("expected token accepted without issuer/audience checks, got %v", err)
	}
}

func TestDevAuthMiddleware_DefaultsToAdmin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/professionals", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := DevAuthMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := c.Get("jwt_tenant_id"); got != "default" {
		t.Errorf("expected default tenant, got %v", got)
	}
	roles := RolesFromContext(c.Request().Context())
	if len(roles) != 1 || roles[0] != RoleAdmin {
		t.Errorf("expected admin role, got %v", roles)
	}
}
