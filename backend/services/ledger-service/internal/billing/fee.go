// Package billing turns parked intervals into charges and finalized sessions into revenue figures.
// Nothing here performs I/O or reads the clock.
package billing

import (
	"math"
	"time"

	"parkledger/backend/services/ledger-service/internal/models"
)

const (
	// BlockMinutes is the length of one billing block.
	BlockMinutes = 15
	// BlocksPerHour converts blocks into hourly-rate fractions.
	BlocksPerHour = 4
)

// Breakdown explains how a charge was derived.
type Breakdown struct {
	Minutes    float64 `json:"minutes"`
	Blocks     float64 `json:"blocks"`
	HourlyRate float64 `json:"hourly_rate"`
	Amount     float64 `json:"amount"`
	// Floored is true when the minimum one-block charge was applied.
	Floored bool `json:"floored"`
}

// Explain computes the charge for a stay and returns every intermediate value.
// Duration is rounded up to whole 15 minute blocks via floor((minutes+14)/15), so
// exact multiples of 15 are not bumped. The result never drops below one block's
// price, which also covers zero and negative durations.
func Explain(entry, exit time.Time, category models.Category, rates models.RateTable) Breakdown {
	rate := rates.Rate(category)
	minutes := exit.Sub(entry).Seconds() / 60
	blocks := math.Floor((minutes + BlockMinutes - 1) / BlockMinutes)

	amount := blocks / BlocksPerHour * rate
	minimum := rate / BlocksPerHour

	b := Breakdown{
		Minutes:    minutes,
		Blocks:     blocks,
		HourlyRate: rate,
		Amount:     amount,
	}
	if amount < minimum {
		b.Amount = minimum
		b.Floored = true
	}
	return b
}

// ComputeCharge returns the amount owed for a stay between entry and exit.
func ComputeCharge(entry, exit time.Time, category models.Category, rates models.RateTable) float64 {
	return Explain(entry, exit, category, rates).Amount
}
