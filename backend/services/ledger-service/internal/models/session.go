package models

import (
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"
)

// Status is the persisted lifecycle state of a parking session.
type Status string

const (
	StatusParked    Status = "estacionado"
	StatusFinalized Status = "finalizado"
)

// Session is one vehicle's parked-to-exit record.
type Session struct {
	ID            string     `json:"id"`
	Plate         string     `json:"plate"`
	Category      Category   `json:"category"`
	EntryTime     time.Time  `json:"entry_time"`
	ExitTime      null.Time  `json:"exit_time"`
	Status        Status     `json:"status"`
	ChargedAmount null.Float `json:"charged_amount"`
	// Repaired lists fields that were missing in storage and filled with defaults on read.
	Repaired []string `json:"repaired,omitempty"`
}

// IsParked reports whether the session is still open.
func (s Session) IsParked() bool {
	return s.Status == StatusParked
}

// NormalizePlate trims and upper-cases a license plate.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// SortOrder selects the ordering of FindMany results.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortEntryDesc
	SortExitDesc
)

// SessionFilter narrows store lookups. Zero-valued fields do not filter.
type SessionFilter struct {
	ID            string
	Plate         string
	PlateContains string
	Status        Status
	ExitFrom      time.Time
	ExitTo        time.Time
}

// FindOptions controls ordering and size of FindMany results. Limit <= 0 means unlimited.
type FindOptions struct {
	Sort  SortOrder
	Limit int
}

// SessionUpdate is the set of fields written when a session is finalized.
// The update only applies while the stored status equals ExpectStatus.
type SessionUpdate struct {
	EntryTime     time.Time
	ExitTime      time.Time
	Category      Category
	Status        Status
	ChargedAmount float64
	ExpectStatus  Status
}
