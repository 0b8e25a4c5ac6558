package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/centavo/centavo-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

// newTestContext builds an echo context with the identity values already in
// the request context, the way the identity middleware leaves them.
func newTestContext(t *testing.T, method, path, body string, workspaceID int32, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	ctx := req.Context()
	if workspaceID != 0 {
		ctx = context.WithValue(ctx, middleware.WorkspaceIDKey, workspaceID)
	}
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// decodeProblem parses the recorded body as exactly one problem-details
// document; trailing bytes after the document fail the test.
func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("body is not a single problem document: %v\n%s", err, rec.Body.String())
	}
	return problem
}

// setPathParams assigns echo route parameters on a test context.
func setPathParams(c echo.Context, params map[string]string) {
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}
