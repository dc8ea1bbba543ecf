package models

import "time"

// EventType names a ledger change broadcast to live dashboards.
type EventType string

const (
	EventSessionOpened  EventType = "session.opened"
	EventSessionClosed  EventType = "session.closed"
	EventSessionRemoved EventType = "session.removed"
	EventSessionsPurged EventType = "sessions.purged"
	EventRatesUpdated   EventType = "rates.updated"
)

// Event describes a committed change.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Plate     string    `json:"plate,omitempty"`
	Category  Category  `json:"category,omitempty"`
	Amount    *float64  `json:"amount,omitempty"`
	Count     int64     `json:"count,omitempty"`
	Rates     RateTable `json:"rates,omitempty"`
	At        time.Time `json:"at"`
}
