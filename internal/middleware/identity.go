package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// WorkspaceIDKey is the context key for the request's workspace ID
	WorkspaceIDKey contextKey = "workspace_id"
	// UserIDKey is the context key for the request's user ID
	UserIDKey contextKey = "user_id"

	// WorkspaceHeader carries the workspace injected by the auth proxy
	WorkspaceHeader = "X-Workspace-ID"
	// UserHeader carries the acting user injected by the auth proxy
	UserHeader = "X-User-ID"
)

// problemDetails represents an RFC 7807 Problem Details response
type problemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

const errorTypeUnauthorized = "https://centavo.app/errors/unauthorized"

// unauthorizedError creates an unauthorized error response
func unauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, problemDetails{
		Type:     errorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// Identity returns an Echo middleware that reads the tenancy headers set by
// the upstream auth proxy. Authentication itself happens upstream; this
// service only trusts and propagates the result. Requests without a valid
// workspace header are rejected.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			workspaceHeader := c.Request().Header.Get(WorkspaceHeader)
			if workspaceHeader == "" {
				return unauthorizedError(c, "Workspace required")
			}

			workspaceID, err := strconv.ParseInt(workspaceHeader, 10, 32)
			if err != nil || workspaceID <= 0 {
				log.Debug().Str("header", workspaceHeader).Msg("Rejected invalid workspace header")
				return unauthorizedError(c, "Invalid workspace")
			}

			ctx := context.WithValue(c.Request().Context(), WorkspaceIDKey, int32(workspaceID))

			if userHeader := c.Request().Header.Get(UserHeader); userHeader != "" {
				userID, err := uuid.Parse(userHeader)
				if err != nil {
					log.Debug().Str("header", userHeader).Msg("Rejected invalid user header")
					return unauthorizedError(c, "Invalid user")
				}
				ctx = context.WithValue(ctx, UserIDKey, userID)
			}

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetWorkspaceID extracts the workspace ID from the context
func GetWorkspaceID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(WorkspaceIDKey).(int32); ok {
		return id
	}
	return 0
}

// GetUserID extracts the user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
