package models

import (
	"fmt"
	"math"
)

// FallbackHourlyRate applies to a category missing from the rate table.
const FallbackHourlyRate = 10.0

// RateTable maps each category to its hourly price.
// A table is treated as an immutable value once published; use Clone before editing.
type RateTable map[Category]float64

// DefaultRateTable returns the documented factory prices.
func DefaultRateTable() RateTable {
	return RateTable{
		CategoryCar:        10.0,
		CategoryMotorcycle: 5.0,
		CategoryTruck:      15.0,
		CategoryVan:        12.0,
		CategoryBicycle:    2.0,
	}
}

// Rate returns the hourly rate for c, or FallbackHourlyRate when absent.
func (t RateTable) Rate(c Category) float64 {
	if rate, ok := t[c]; ok {
		return rate
	}
	return FallbackHourlyRate
}

// Clone returns an independent copy.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// WithDefaults returns a copy in which every known category has an entry,
// substituting the factory default where the receiver has none.
func (t RateTable) WithDefaults() RateTable {
	out := t.Clone()
	for c, rate := range DefaultRateTable() {
		if _, ok := out[c]; !ok {
			out[c] = rate
		}
	}
	return out
}

// Validate rejects unknown categories and negative or non-finite prices.
func (t RateTable) Validate() error {
	for c, rate := range t {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("rate for %s is not a finite number", c)
		}
		if rate < 0 {
			return fmt.Errorf("rate for %s must not be negative, got %.2f", c, rate)
		}
	}
	return nil
}

// Equal reports whether both tables hold the same entries.
func (t RateTable) Equal(other RateTable) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
