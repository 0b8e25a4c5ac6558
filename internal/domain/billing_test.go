package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveInvoiceCycle_BeforeClosingDay(t *testing.T) {
	cycle := ResolveInvoiceCycle(date(2025, time.March, 5), 10, 20)

	if cycle.Month != 3 || cycle.Year != 2025 {
		t.Fatalf("Expected cycle 3/2025, got %d/%d", cycle.Month, cycle.Year)
	}
	if !cycle.ClosingDate.Equal(date(2025, time.March, 10)) {
		t.Errorf("Expected closing date 2025-03-10, got %v", cycle.ClosingDate)
	}
	if !cycle.DueDate.Equal(date(2025, time.March, 20)) {
		t.Errorf("Expected due date 2025-03-20, got %v", cycle.DueDate)
	}
}

func TestResolveInvoiceCycle_AfterClosingDay(t *testing.T) {
	cycle := ResolveInvoiceCycle(date(2025, time.March, 15), 10, 20)

	if cycle.Month != 4 || cycle.Year != 2025 {
		t.Fatalf("Expected cycle 4/2025, got %d/%d", cycle.Month, cycle.Year)
	}
}

func TestResolveInvoiceCycle_DueDayBeforeClosingDay(t *testing.T) {
	// closingDay=25, dueDay=10: a purchase on day 26 of March lands in
	// April's cycle and is due in May (the due date is after closing even
	// though its day number is smaller).
	cycle := ResolveInvoiceCycle(date(2025, time.March, 26), 25, 10)

	if cycle.Month != 4 || cycle.Year != 2025 {
		t.Fatalf("Expected cycle 4/2025, got %d/%d", cycle.Month, cycle.Year)
	}
	if !cycle.ClosingDate.Equal(date(2025, time.April, 25)) {
		t.Errorf("Expected closing date 2025-04-25, got %v", cycle.ClosingDate)
	}
	if !cycle.DueDate.Equal(date(2025, time.May, 10)) {
		t.Errorf("Expected due date 2025-05-10, got %v", cycle.DueDate)
	}
}

func TestResolveInvoiceCycle_DecemberRollsYear(t *testing.T) {
	cycle := ResolveInvoiceCycle(date(2025, time.December, 28), 25, 10)

	if cycle.Month != 1 || cycle.Year != 2026 {
		t.Fatalf("Expected cycle 1/2026, got %d/%d", cycle.Month, cycle.Year)
	}
	if !cycle.DueDate.Equal(date(2026, time.February, 10)) {
		t.Errorf("Expected due date 2026-02-10, got %v", cycle.DueDate)
	}
}

func TestResolveInvoiceCycle_OnClosingDayStaysInCycle(t *testing.T) {
	// Day equal to closing day still belongs to the current cycle; only
	// strictly-after rolls over.
	cycle := ResolveInvoiceCycle(date(2025, time.March, 10), 10, 20)

	if cycle.Month != 3 || cycle.Year != 2025 {
		t.Fatalf("Expected cycle 3/2025, got %d/%d", cycle.Month, cycle.Year)
	}
}

func TestResolveInvoiceCycle_ClampsShortMonth(t *testing.T) {
	// Closing day 31 in a cycle landing on February clamps to the 28th.
	cycle := ResolveInvoiceCycle(date(2025, time.February, 3), 31, 5)

	if cycle.Month != 2 || cycle.Year != 2025 {
		t.Fatalf("Expected cycle 2/2025, got %d/%d", cycle.Month, cycle.Year)
	}
	if !cycle.ClosingDate.Equal(date(2025, time.February, 28)) {
		t.Errorf("Expected closing date 2025-02-28, got %v", cycle.ClosingDate)
	}
	if !cycle.DueDate.Equal(date(2025, time.March, 5)) {
		t.Errorf("Expected due date 2025-03-05, got %v", cycle.DueDate)
	}
}
