package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the kind of change an event announces
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypePaid     EventType = "paid"
	EventTypeUnpaid   EventType = "unpaid"
	EventTypeAccrued  EventType = "accrued"
	EventTypeRedeemed EventType = "redeemed"
)

// EntityType represents the entity the event is about
type EntityType string

const (
	EntityTypeAccount     EntityType = "account"
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeInvoice     EntityType = "invoice"
	EntityTypePurchase    EntityType = "purchase"
	EntityTypeInstallment EntityType = "installment_plan"
	EntityTypeGoal        EntityType = "goal"
	EntityTypeYield       EntityType = "yield"
)

// Event is a message pushed to every client of a workspace when the ledger
// changes. Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "transaction.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "transaction"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionUpdated creates a transaction.updated event
func TransactionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, payload)
}

// TransactionPaid creates a transaction.paid event
func TransactionPaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeTransaction, payload)
}

// TransactionUnpaid creates a transaction.unpaid event
func TransactionUnpaid(payload interface{}) Event {
	return NewEvent(EventTypeUnpaid, EntityTypeTransaction, payload)
}

// InvoicePaid creates an invoice.paid event
func InvoicePaid(payload interface{}) Event {
	return NewEvent(EventTypePaid, EntityTypeInvoice, payload)
}

// PurchaseCreated creates a purchase.created event
func PurchaseCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePurchase, payload)
}

// InstallmentPlanCreated creates an installment_plan.created event
func InstallmentPlanCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeInstallment, payload)
}

// InstallmentPlanDeleted creates an installment_plan.deleted event
func InstallmentPlanDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeInstallment, payload)
}

// GoalUpdated creates a goal.updated event
func GoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeGoal, payload)
}

// GoalDeleted creates a goal.deleted event
func GoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeGoal, payload)
}

// YieldAccrued creates a yield.accrued event
func YieldAccrued(payload interface{}) Event {
	return NewEvent(EventTypeAccrued, EntityTypeYield, payload)
}

// AccountRedeemed creates an account.redeemed event
func AccountRedeemed(payload interface{}) Event {
	return NewEvent(EventTypeRedeemed, EntityTypeAccount, payload)
}
