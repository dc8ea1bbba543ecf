package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/models"
)

func TestRatesLoadDefaultsWhenMissing(t *testing.T) {
	svc := NewRatesService(&memoryPriceConfig{}, nil, zap.NewNop())

	table, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, models.DefaultRateTable().Equal(table))
	assert.True(t, models.DefaultRateTable().Equal(svc.Current()))
}

func TestRatesLoadFillsMissingCategories(t *testing.T) {
	store := &memoryPriceConfig{table: models.RateTable{models.CategoryCar: 20}}
	svc := NewRatesService(store, nil, zap.NewNop())

	table, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table, len(models.Categories))
	assert.InDelta(t, 20.0, table[models.CategoryCar], 1e-9)
	assert.InDelta(t, 5.0, table[models.CategoryMotorcycle], 1e-9)
}

func TestRatesSaveRoundTrip(t *testing.T) {
	store := &memoryPriceConfig{}
	events := &recordingPublisher{}
	svc := NewRatesService(store, events, zap.NewNop())
	ctx := context.Background()

	want := models.RateTable{
		models.CategoryCar:        11,
		models.CategoryMotorcycle: 6,
		models.CategoryTruck:      16,
		models.CategoryVan:        13,
		models.CategoryBicycle:    0,
	}
	require.NoError(t, svc.Save(ctx, want))
	assert.True(t, want.Equal(svc.Current()))

	reloaded := NewRatesService(store, nil, zap.NewNop())
	got, err := reloaded.Load(ctx)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
	assert.Equal(t, []models.EventType{models.EventRatesUpdated}, events.types())
}

func TestRatesSaveRejectsInvalidTables(t *testing.T) {
	store := &memoryPriceConfig{}
	svc := NewRatesService(store, nil, zap.NewNop())
	ctx := context.Background()

	cases := map[string]models.RateTable{
		"empty":    {},
		"negative": {models.CategoryCar: -1},
		"nan":      {models.CategoryCar: math.NaN()},
		"unknown":  {"Barco": 3},
	}
	for name, table := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Save(ctx, table), ErrValidation)
		})
	}
	assert.Nil(t, store.table)
	assert.True(t, models.DefaultRateTable().Equal(svc.Current()))
}

func TestRatesStoreFailure(t *testing.T) {
	store := &memoryPriceConfig{failWith: errBackendDown}
	svc := NewRatesService(store, nil, zap.NewNop())

	_, err := svc.Load(context.Background())
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)

	err = svc.Save(context.Background(), models.DefaultRateTable())
	assert.ErrorAs(t, err, &storeErr)
	assert.True(t, models.DefaultRateTable().Equal(svc.Current()))
}

func TestRatesCurrentIsACopy(t *testing.T) {
	svc := NewRatesService(&memoryPriceConfig{}, nil, zap.NewNop())

	snapshot := svc.Current()
	snapshot[models.CategoryCar] = 999

	assert.InDelta(t, 10.0, svc.Current()[models.CategoryCar], 1e-9)
}
