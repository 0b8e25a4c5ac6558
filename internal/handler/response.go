package handler

import (
	"errors"
	"net/http"

	"github.com/centavo/centavo-backend/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// requestError carries a malformed-field failure out of request parsing so
// the handler writes the problem response exactly once.
type requestError struct {
	detail string
	fields []ValidationError
}

func (e *requestError) Error() string { return e.detail }

// Error types
const (
	ErrorTypeValidation   = "https://centavo.app/errors/validation"
	ErrorTypeNotFound     = "https://centavo.app/errors/not-found"
	ErrorTypeUnauthorized = "https://centavo.app/errors/unauthorized"
	ErrorTypeConflict     = "https://centavo.app/errors/conflict"
	ErrorTypeUpstream     = "https://centavo.app/errors/upstream"
	ErrorTypeInternal     = "https://centavo.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUpstreamError creates a bad gateway response for upstream failures
func NewUpstreamError(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadGateway, ProblemDetails{
		Type:     ErrorTypeUpstream,
		Title:    "Upstream Unavailable",
		Status:   http.StatusBadGateway,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// FromDomainError maps a domain sentinel error onto the matching problem
// response. Unknown errors are logged and hidden behind fallback.
func FromDomainError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrDestinationNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrCreditCardNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrInstallmentPlanNotFound),
		errors.Is(err, domain.ErrGoalNotFound),
		errors.Is(err, domain.ErrWorkspaceNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, err.Error())

	case errors.Is(err, domain.ErrTransactionAlreadyPaid),
		errors.Is(err, domain.ErrTransactionNotPaid),
		errors.Is(err, domain.ErrInvoiceAlreadyPaid),
		errors.Is(err, domain.ErrAccountInUse),
		errors.Is(err, domain.ErrCardHasOpenInvoices):
		return NewConflictError(c, err.Error())

	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrNameTooShort),
		errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDayOfMonth),
		errors.Is(err, domain.ErrInvalidInstallment),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidInput):
		return NewValidationError(c, err.Error(), nil)

	case errors.Is(err, domain.ErrRateUnavailable):
		return NewUpstreamError(c, err.Error())
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg(fallback)
	return NewInternalError(c, fallback)
}
