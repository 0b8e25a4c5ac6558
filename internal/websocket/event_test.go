package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, map[string]int{"id": 1})

	assert.Equal(t, "transaction.created", event.Type)
	assert.Equal(t, EntityTypeTransaction, event.Entity)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_ToJSON(t *testing.T) {
	event := InvoicePaid(map[string]interface{}{"invoiceId": 7, "totalAmount": "350.00"})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "invoice.paid", decoded["type"])
	assert.Equal(t, "invoice", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), payload["invoiceId"])
}

func TestEventConstructors(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{TransactionCreated(nil), "transaction.created"},
		{TransactionUpdated(nil), "transaction.updated"},
		{TransactionDeleted(nil), "transaction.deleted"},
		{TransactionPaid(nil), "transaction.paid"},
		{TransactionUnpaid(nil), "transaction.unpaid"},
		{PurchaseCreated(nil), "purchase.created"},
		{InstallmentPlanCreated(nil), "installment_plan.created"},
		{InstallmentPlanDeleted(nil), "installment_plan.deleted"},
		{GoalUpdated(nil), "goal.updated"},
		{GoalDeleted(nil), "goal.deleted"},
		{YieldAccrued(nil), "yield.accrued"},
		{AccountRedeemed(nil), "account.redeemed"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.event.Type)
	}
}
