package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func runIdentity(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var inner echo.Context
	handler := Identity()(func(c echo.Context) error {
		inner = c
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("Handler returned error: %v", err)
	}
	return rec, inner
}

func TestIdentityInjectsWorkspaceAndUser(t *testing.T) {
	userID := uuid.New()
	rec, inner := runIdentity(t, map[string]string{
		WorkspaceHeader: "42",
		UserHeader:      userID.String(),
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := GetWorkspaceID(inner); got != 42 {
		t.Errorf("Expected workspace 42, got %d", got)
	}
	if got := GetUserID(inner); got != userID {
		t.Errorf("Expected user %s, got %s", userID, got)
	}
}

func TestIdentityRejectsMissingWorkspace(t *testing.T) {
	rec, _ := runIdentity(t, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
}

func TestIdentityRejectsBadWorkspace(t *testing.T) {
	for _, header := range []string{"abc", "0", "-3"} {
		rec, _ := runIdentity(t, map[string]string{WorkspaceHeader: header})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestIdentityRejectsBadUser(t *testing.T) {
	rec, _ := runIdentity(t, map[string]string{
		WorkspaceHeader: "1",
		UserHeader:      "not-a-uuid",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
}

func TestIdentityUserOptional(t *testing.T) {
	rec, inner := runIdentity(t, map[string]string{WorkspaceHeader: "7"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := GetUserID(inner); got != uuid.Nil {
		t.Errorf("Expected nil user, got %s", got)
	}
}
