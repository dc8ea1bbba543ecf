package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Carro", CategoryCar},
		{"car", CategoryCar},
		{" MOTO ", CategoryMotorcycle},
		{"motorcycle", CategoryMotorcycle},
		{"Caminhão", CategoryTruck},
		{"truck", CategoryTruck},
		{"van", CategoryVan},
		{"Bicycle", CategoryBicycle},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseCategory("boat")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "ABC1D23", NormalizePlate("  abc1d23 "))
	assert.Equal(t, "", NormalizePlate("   "))
}

func TestRateTableRateFallsBack(t *testing.T) {
	table := RateTable{CategoryCar: 8}
	assert.Equal(t, 8.0, table.Rate(CategoryCar))
	assert.Equal(t, FallbackHourlyRate, table.Rate(CategoryTruck))
	assert.Equal(t, FallbackHourlyRate, RateTable(nil).Rate(CategoryVan))
}

func TestRateTableWithDefaults(t *testing.T) {
	table := RateTable{CategoryCar: 20}
	full := table.WithDefaults()

	assert.Len(t, full, len(Categories))
	assert.Equal(t, 20.0, full[CategoryCar])
	assert.Equal(t, 5.0, full[CategoryMotorcycle])
	assert.Equal(t, 15.0, full[CategoryTruck])
	assert.Equal(t, 12.0, full[CategoryVan])
	assert.Equal(t, 2.0, full[CategoryBicycle])
	assert.Len(t, table, 1, "receiver must not be modified")
}

func TestRateTableValidate(t *testing.T) {
	assert.NoError(t, DefaultRateTable().Validate())
	assert.NoError(t, RateTable{CategoryCar: 0}.Validate())
	assert.Error(t, RateTable{CategoryCar: -1}.Validate())
	assert.Error(t, RateTable{CategoryCar: math.NaN()}.Validate())
	assert.Error(t, RateTable{CategoryCar: math.Inf(1)}.Validate())
	assert.ErrorIs(t, RateTable{"Barco": 3}.Validate(), ErrUnknownCategory)
}

func TestRateTableEqualAndClone(t *testing.T) {
	a := DefaultRateTable()
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b[CategoryCar] = 11
	assert.False(t, a.Equal(b))
	assert.Equal(t, 10.0, a[CategoryCar])
	assert.False(t, a.Equal(RateTable{CategoryCar: 10}))
}

func strPtr(s string) *string { return &s }

func TestNormalizeRecordCompleteRecordIsUntouched(t *testing.T) {
	entry := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	exit := entry.Add(time.Hour)
	amount := 10.0
	raw := RawRecord{
		ID:            "s1",
		Plate:         strPtr("ABC1234"),
		Category:      strPtr("Moto"),
		EntryTime:     &entry,
		ExitTime:      &exit,
		Status:        strPtr("finalizado"),
		ChargedAmount: &amount,
	}

	s := NormalizeRecord(raw, time.Now())
	assert.Empty(t, s.Repaired)
	assert.Equal(t, "ABC1234", s.Plate)
	assert.Equal(t, CategoryMotorcycle, s.Category)
	assert.Equal(t, StatusFinalized, s.Status)
	assert.True(t, s.ExitTime.Valid)
	assert.Equal(t, exit, s.ExitTime.Time)
	assert.Equal(t, 10.0, s.ChargedAmount.Float64)
}

func TestNormalizeRecordFillsDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NormalizeRecord(RawRecord{ID: "s2"}, now)
	assert.Equal(t, UnknownPlate, s.Plate)
	assert.Equal(t, CategoryCar, s.Category)
	assert.Equal(t, now, s.EntryTime)
	assert.Equal(t, StatusFinalized, s.Status)
	assert.Equal(t, now, s.ExitTime.Time)
	assert.False(t, s.ChargedAmount.Valid)
	assert.ElementsMatch(t, []string{"plate", "category", "entry_time", "status", "exit_time"}, s.Repaired)
}

func TestNormalizeRecordParkedKeepsExitAbsent(t *testing.T) {
	entry := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NormalizeRecord(RawRecord{
		ID:        "s3",
		Plate:     strPtr("XYZ9876"),
		Category:  strPtr("Van"),
		EntryTime: &entry,
		Status:    strPtr("estacionado"),
	}, time.Now())

	assert.Empty(t, s.Repaired)
	assert.True(t, s.IsParked())
	assert.False(t, s.ExitTime.Valid)
}

func TestNormalizeRecordUsesLegacyPlate(t *testing.T) {
	entry := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NormalizeRecord(RawRecord{
		ID:          "s4",
		LegacyPlate: strPtr(" abc1234"),
		Category:    strPtr("Carro"),
		EntryTime:   &entry,
		Status:      strPtr("estacionado"),
	}, time.Now())

	assert.Equal(t, "ABC1234", s.Plate)
	assert.Equal(t, []string{"plate"}, s.Repaired)
}
