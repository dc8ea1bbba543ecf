package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/models"
)

// RatesService owns the current rate table snapshot. Readers take the
// snapshot once per operation and pass it to the fee calculator.
type RatesService struct {
	store   PriceConfigStore
	events  EventPublisher
	logger  *zap.Logger
	current atomic.Pointer[models.RateTable]
}

// NewRatesService builds service. Until Load succeeds Current returns the default table.
func NewRatesService(store PriceConfigStore, events EventPublisher, logger *zap.Logger) *RatesService {
	if events == nil {
		events = noopPublisher{}
	}
	s := &RatesService{store: store, events: events, logger: logger}
	defaults := models.DefaultRateTable()
	s.current.Store(&defaults)
	return s
}

// Load reads the persisted table, or the defaults when none was saved yet,
// and publishes it as the current snapshot.
func (s *RatesService) Load(ctx context.Context) (models.RateTable, error) {
	table, found, err := s.store.GetPriceConfig(ctx)
	if err != nil {
		return nil, storeErr("get price config", err)
	}
	if !found {
		table = models.DefaultRateTable()
		s.logger.Info("no rate table stored, using defaults")
	}
	table = table.WithDefaults()
	s.current.Store(&table)
	return table.Clone(), nil
}

// Current returns a copy of the active snapshot.
func (s *RatesService) Current() models.RateTable {
	return (*s.current.Load()).Clone()
}

// Save replaces the stored table wholesale and swaps the snapshot.
func (s *RatesService) Save(ctx context.Context, table models.RateTable) error {
	if len(table) == 0 {
		return validationErr("rate table is empty")
	}
	if err := table.Validate(); err != nil {
		return validationErr("%v", err)
	}
	snapshot := table.Clone()
	if err := s.store.SetPriceConfig(ctx, snapshot); err != nil {
		return storeErr("set price config", err)
	}
	published := snapshot.WithDefaults()
	s.current.Store(&published)

	s.logger.Info("rate table saved", zap.Any("rates", snapshot))
	s.events.Publish(models.Event{Type: models.EventRatesUpdated, Rates: published.Clone(), At: time.Now().UTC()})
	return nil
}
