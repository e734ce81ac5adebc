package amqp

import (
	"encoding/json"
	"time"
)

const eventTypeExpenseCreated = "expense.created"

// ExpenseCreated announces a freshly stored expense. Idempotent replays do
// not produce one, so a consumer sees each expense at most once.
type ExpenseCreated struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Month       string    `json:"month"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes, stamping the time if unset.
func (e ExpenseCreated) ToJSON() ([]byte, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return json.Marshal(e)
}

// ExpenseCreatedFromJSON decodes an event from JSON bytes.
func ExpenseCreatedFromJSON(data []byte) (*ExpenseCreated, error) {
	var e ExpenseCreated
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
