package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parkledger/backend/services/ledger-service/internal/models"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 5, 4, hour, minute, second, 0, time.UTC)
}

func TestComputeCharge(t *testing.T) {
	rates := models.DefaultRateTable()

	tests := []struct {
		name     string
		entry    time.Time
		exit     time.Time
		category models.Category
		want     float64
	}{
		{"exact 30 minutes is two blocks", at(10, 0, 0), at(10, 30, 0), models.CategoryCar, 5.0},
		{"exact hour is four blocks", at(10, 0, 0), at(11, 0, 0), models.CategoryCar, 10.0},
		{"exact 15 minutes is one block", at(10, 0, 0), at(10, 15, 0), models.CategoryCar, 2.5},
		{"16 minutes bumps to two blocks", at(10, 0, 0), at(10, 16, 0), models.CategoryCar, 5.0},
		{"1 minute is one block", at(10, 0, 0), at(10, 1, 0), models.CategoryCar, 2.5},
		{"61 minutes is five blocks", at(10, 0, 0), at(11, 1, 0), models.CategoryCar, 12.5},
		{"zero duration charges the minimum", at(10, 0, 0), at(10, 0, 0), models.CategoryCar, 2.5},
		{"negative duration charges the minimum", at(10, 30, 0), at(10, 0, 0), models.CategoryCar, 2.5},
		{"truck rate", at(8, 0, 0), at(10, 0, 0), models.CategoryTruck, 30.0},
		{"motorcycle 45 minutes", at(8, 0, 0), at(8, 45, 0), models.CategoryMotorcycle, 3.75},
		{"bicycle minimum", at(8, 0, 0), at(8, 5, 0), models.CategoryBicycle, 0.5},
		{"unknown category uses fallback", at(8, 0, 0), at(9, 0, 0), models.Category("Barco"), 10.0},
		{"seconds past a minute boundary stay in the block", at(10, 0, 0), at(10, 15, 30), models.CategoryCar, 2.5},
		{"no upper cap", at(0, 0, 0), at(0, 0, 0).Add(72 * time.Hour), models.CategoryVan, 864.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCharge(tt.entry, tt.exit, tt.category, rates)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestComputeChargeNeverBelowOneBlock(t *testing.T) {
	rates := models.RateTable{models.CategoryCar: 7}
	base := at(12, 0, 0)
	for offset := -120; offset <= 120; offset += 7 {
		got := ComputeCharge(base, base.Add(time.Duration(offset)*time.Minute), models.CategoryCar, rates)
		assert.GreaterOrEqual(t, got, 7.0/4, "offset %d", offset)
	}
}

func TestComputeChargeExactMultiplesAreNotBumped(t *testing.T) {
	rates := models.RateTable{models.CategoryVan: 12}
	base := at(6, 0, 0)
	for blocks := 1; blocks <= 40; blocks++ {
		exit := base.Add(time.Duration(blocks*BlockMinutes) * time.Minute)
		want := float64(blocks) / BlocksPerHour * 12
		assert.InDelta(t, want, ComputeCharge(base, exit, models.CategoryVan, rates), 1e-9, "blocks %d", blocks)
	}
}

func TestExplain(t *testing.T) {
	b := Explain(at(10, 0, 0), at(10, 16, 0), models.CategoryCar, models.DefaultRateTable())
	assert.InDelta(t, 16.0, b.Minutes, 1e-9)
	assert.Equal(t, 2.0, b.Blocks)
	assert.Equal(t, 10.0, b.HourlyRate)
	assert.Equal(t, 5.0, b.Amount)
	assert.False(t, b.Floored)

	floored := Explain(at(10, 0, 0), at(9, 0, 0), models.CategoryCar, models.DefaultRateTable())
	assert.True(t, floored.Floored)
	assert.Equal(t, 2.5, floored.Amount)
}
