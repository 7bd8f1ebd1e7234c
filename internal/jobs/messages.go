// Package jobs wires the scheduled and event-driven work: the recurring
// trigger, per-template processing, budget alerts and monthly reports.
package jobs

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidEvent marks a message that can never be processed.
var ErrInvalidEvent = errors.New("jobs: invalid event")

// RecurringEvent asks for one recurring template to be processed.
type RecurringEvent struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewRecurringEvent creates an event stamped with the current time.
func NewRecurringEvent(transactionID, userID string) RecurringEvent {
	return RecurringEvent{
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now().UTC(),
	}
}

// Validate checks the required fields.
func (e RecurringEvent) Validate() error {
	if e.TransactionID == "" || e.UserID == "" {
		return ErrInvalidEvent
	}
	return nil
}

// ToJSON converts the event to JSON bytes
func (e RecurringEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RecurringEventFromJSON decodes and validates an event.
func RecurringEventFromJSON(data []byte) (RecurringEvent, error) {
	var e RecurringEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return RecurringEvent{}, errors.Join(ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return RecurringEvent{}, err
	}
	return e, nil
}
