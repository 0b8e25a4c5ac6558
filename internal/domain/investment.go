package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withholding-tax schedule for fixed-income redemptions, bracketed by holding
// period. Boundaries are exclusive: exactly 180 days still taxes at 22.5%.
var (
	taxRateUpTo180Days  = decimal.RequireFromString("0.225")
	taxRateUpTo360Days  = decimal.RequireFromString("0.20")
	taxRateUpTo720Days  = decimal.RequireFromString("0.175")
	taxRateBeyond720    = decimal.RequireFromString("0.15")
)

// RedemptionTaxRate returns the withholding rate for a holding period in
// whole days.
func RedemptionTaxRate(holdingDays int) decimal.Decimal {
	switch {
	case holdingDays > 720:
		return taxRateBeyond720
	case holdingDays > 360:
		return taxRateUpTo720Days
	case holdingDays > 180:
		return taxRateUpTo360Days
	default:
		return taxRateUpTo180Days
	}
}

// HoldingDays returns the whole days elapsed between the account's creation
// and now.
func HoldingDays(createdAt, now time.Time) int {
	return int(now.Sub(createdAt).Hours() / 24)
}

// DailyRate is an external percent-per-day rate quote (e.g. 0.05 meaning
// 0.05% per day).
type DailyRate struct {
	Date  time.Time
	Value decimal.Decimal
}

// DailyRateProvider supplies the reference daily rate the yield batch
// accrues against. Implementations may cache; a failed fetch aborts the
// whole batch run.
type DailyRateProvider interface {
	DailyRate() (*DailyRate, error)
}

// GrossDailyYield computes balance * (rate/100) * (cdiPercentage/100): the
// provider quotes percent per day and cdiPercentage is a percent-of-rate
// multiplier (100 = track the rate exactly).
func GrossDailyYield(balance, ratePercent, cdiPercentage decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return balance.Mul(ratePercent.Div(hundred)).Mul(cdiPercentage.Div(hundred))
}

// MinYieldCredit is the smallest gross yield worth booking; below it the
// batch only stamps the account as visited.
var MinYieldCredit = decimal.RequireFromString("0.01")
