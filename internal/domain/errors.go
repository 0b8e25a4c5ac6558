package domain

import "errors"

// Domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternalError     = errors.New("internal error")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrAccountNotFound     = errors.New("bank account not found")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrAccountInUse        = errors.New("account has transactions and cannot be deleted")

	ErrCategoryNotFound = errors.New("category not found")

	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionAlreadyPaid = errors.New("transaction is already paid")
	ErrTransactionNotPaid     = errors.New("transaction is not paid")

	ErrCreditCardNotFound  = errors.New("credit card not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid  = errors.New("invoice is already paid")
	ErrCardHasOpenInvoices = errors.New("card has open invoices with a balance")

	ErrInstallmentPlanNotFound = errors.New("installment plan not found")

	ErrGoalNotFound = errors.New("goal not found")

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRateUnavailable   = errors.New("daily rate unavailable")

	ErrNameRequired       = errors.New("name is required")
	ErrNameTooShort       = errors.New("name is too short")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidDayOfMonth  = errors.New("day of month must be between 1 and 31")
	ErrInvalidInstallment = errors.New("installment count out of range")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// Validation constants
const (
	MinNameLength = 2
	MaxNameLength = 255

	MinInstallments = 1
	MaxInstallments = 48
)
