package models

import (
	"strings"
	"time"

	"gopkg.in/guregu/null.v4"
)

// UnknownPlate replaces a missing plate on read.
const UnknownPlate = "UNKNOWN"

// RawRecord is a session as read from storage, before defaults are applied.
// Nil pointers mean the field was absent.
type RawRecord struct {
	ID            string
	Plate         *string
	LegacyPlate   *string
	Category      *string
	EntryTime     *time.Time
	ExitTime      *time.Time
	Status        *string
	ChargedAmount *float64
}

// NormalizeRecord turns a raw record into a Session, filling absent fields with
// defaults: category Car, plate UNKNOWN, entry now, status Finalized and, for
// finalized records, exit now. Every repaired field is listed in Session.Repaired.
func NormalizeRecord(raw RawRecord, now time.Time) Session {
	s := Session{ID: raw.ID}

	switch {
	case present(raw.Plate):
		s.Plate = *raw.Plate
	case present(raw.LegacyPlate):
		s.Plate = NormalizePlate(*raw.LegacyPlate)
		s.Repaired = append(s.Repaired, "plate")
	default:
		s.Plate = UnknownPlate
		s.Repaired = append(s.Repaired, "plate")
	}

	if present(raw.Category) {
		s.Category = Category(*raw.Category)
	} else {
		s.Category = CategoryCar
		s.Repaired = append(s.Repaired, "category")
	}

	if raw.EntryTime != nil && !raw.EntryTime.IsZero() {
		s.EntryTime = *raw.EntryTime
	} else {
		s.EntryTime = now
		s.Repaired = append(s.Repaired, "entry_time")
	}

	if present(raw.Status) {
		s.Status = Status(*raw.Status)
	} else {
		s.Status = StatusFinalized
		s.Repaired = append(s.Repaired, "status")
	}

	switch {
	case raw.ExitTime != nil && !raw.ExitTime.IsZero():
		s.ExitTime = null.TimeFrom(*raw.ExitTime)
	case s.Status == StatusFinalized:
		s.ExitTime = null.TimeFrom(now)
		s.Repaired = append(s.Repaired, "exit_time")
	}

	if raw.ChargedAmount != nil {
		s.ChargedAmount = null.FloatFrom(*raw.ChargedAmount)
	}

	return s
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}
