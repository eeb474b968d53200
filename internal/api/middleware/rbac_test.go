package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/core/domain"
)

func TestRBAC_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxRole, string(domain.RoleAdmin))

	called := false
	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_AllowsEitherRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSeller} {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set(CtxRole, string(role))

		handler := RBAC(domain.RoleAdmin, domain.RoleSeller)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil || rec.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200, got %d (%v)", role, rec.Code, err)
		}
	}
}

func TestRBAC_Forbids(t *testing.T) {
	cases := []struct {
		role string
		msg  string
	}{
		{role: "SELLER", msg: "role SELLER may not perform this operation"},
		{role: "", msg: "unknown role"},
		{role: "admin", msg: "unknown role"},
		{role: "CASHIER", msg: "unknown role"},
	}
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if tc.role != "" {
			c.Set(CtxRole, tc.role)
		}

		handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})

		_ = handler(c)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("role %q: expected 403, got %d", tc.role, rec.Code)
		}
		var body map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		if body["error"] != tc.msg {
			t.Errorf("role %q: expected %q, got %q", tc.role, tc.msg, body["error"])
		}
	}
}
