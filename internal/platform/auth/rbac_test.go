package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(c echo.Context, roles []string) {
	ctx := context.WithValue(c.Request().Context(), UserRolesKey, roles)
	c.SetRequest(c.Request().WithContext(ctx))
}

func runRequireRole(t *testing.T, userRoles []string, required ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	contextWithRoles(c, userRoles)

	handler := RequireRole(required...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	tests := []struct {
		name      string
		userRoles []string
		required  []string
	}{
		{"exact match", []string{RoleAttendant}, []string{RoleAttendant}},
		{"one of several", []string{RoleProfessional}, []string{RoleAttendant, RoleProfessional}},
		{"admin passes any check", []string{RoleAdmin}, []string{RoleAttendant}},
		{"admin among other roles", []string{RoleProfessional, RoleAdmin}, []string{RoleAttendant}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runRequireRole(t, tt.userRoles, tt.required...); err != nil {
				t.Errorf("expected access granted, got %v", err)
			}
		})
	}
}

func TestRequireRole_Denied(t *testing.T) {
	tests := []struct {
		name      string
		userRoles []string
		required  []string
	}{
		{"wrong role", []string{RoleAttendant}, []string{RoleProfessional}},
		{"no roles", nil, []string{RoleAttendant}},
		{"empty roles", []string{}, []string{RoleAttendant}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runRequireRole(t, tt.userRoles, tt.required...)
			if err == nil {
				t.Fatal("expected access denied")
			}
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected HTTPError, got %T", err)
			}
			if httpErr.Code != http.StatusForbidden {
				t.Errorf("expected 403, got %d", httpErr.Code)
			}
		})
	}
}
