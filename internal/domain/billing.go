package domain

import (
	"time"

	"github.com/centavo/centavo-backend/internal/util"
)

// InvoiceCycle identifies the billing cycle an amount belongs to.
type InvoiceCycle struct {
	Month       int
	Year        int
	ClosingDate time.Time
	DueDate     time.Time
}

// ResolveInvoiceCycle maps a purchase date onto a card's billing cycle.
// A purchase after the closing day belongs to next month's cycle, rolling
// the year over December. The due date carries the cycle's month unless the
// due day-of-month is before the closing day, in which case the due date is
// one month later (it is logically after closing even though its day number
// is smaller). Day numbers past the end of a month clamp to its last day.
func ResolveInvoiceCycle(purchaseDate time.Time, closingDay, dueDay int) InvoiceCycle {
	month := int(purchaseDate.Month())
	year := purchaseDate.Year()

	if purchaseDate.Day() > closingDay {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	closingDate := util.CalculateActualDate(year, time.Month(month), closingDay)
	dueDate := util.CalculateActualDate(year, time.Month(month), dueDay)
	if dueDay < closingDay {
		dueDate = util.AddMonths(dueDate, 1)
	}

	return InvoiceCycle{
		Month:       month,
		Year:        year,
		ClosingDate: closingDate,
		DueDate:     dueDate,
	}
}
