package service

import (
	"context"

	"parkledger/backend/services/ledger-service/internal/models"
)

// SessionStore is the record store the lifecycle manager depends on.
// Implementations return repository.ErrNotFound from FindOne when nothing
// matches and repository.ErrActiveExists from Insert when the plate already
// has a parked session.
type SessionStore interface {
	Insert(ctx context.Context, session *models.Session) (string, error)
	FindOne(ctx context.Context, filter models.SessionFilter) (*models.Session, error)
	FindMany(ctx context.Context, filter models.SessionFilter, opts models.FindOptions) ([]models.Session, error)
	UpdateFields(ctx context.Context, id string, update models.SessionUpdate) (bool, error)
	DeleteOne(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// PriceConfigStore persists the rate table.
type PriceConfigStore interface {
	GetPriceConfig(ctx context.Context) (models.RateTable, bool, error)
	SetPriceConfig(ctx context.Context, table models.RateTable) error
}

// PlateLocker provides a mutual-exclusion scope per plate. Release must be
// called exactly once after a successful Lock.
type PlateLocker interface {
	Lock(ctx context.Context, plate string) (release func(), err error)
}

// EventPublisher receives committed changes. Publish must not block.
type EventPublisher interface {
	Publish(event models.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(models.Event) {}
