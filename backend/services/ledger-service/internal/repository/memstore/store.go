// Package memstore keeps sessions and the rate table in process memory.
// It backs the "memory" storage driver used for local runs and tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"

	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/repository"
)

// Store implements the session and price config contracts.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	rates    models.RateTable
}

// New returns an empty store.
func New() *Store {
	return &Store{sessions: make(map[string]models.Session)}
}

// Insert stores a copy of session under a new id.
func (s *Store) Insert(_ context.Context, session *models.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.Status == models.StatusParked {
		for _, existing := range s.sessions {
			if existing.Status == models.StatusParked && existing.Plate == session.Plate {
				return "", repository.ErrActiveExists
			}
		}
	}
	id := uuid.NewString()
	stored := *session
	stored.ID = id
	s.sessions[id] = stored
	return id, nil
}

// FindOne returns the first match or repository.ErrNotFound.
func (s *Store) FindOne(ctx context.Context, filter models.SessionFilter) (*models.Session, error) {
	found, err := s.FindMany(ctx, filter, models.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return &found[0], nil
}

// FindMany returns copies of every matching session.
func (s *Store) FindMany(_ context.Context, filter models.SessionFilter, opts models.FindOptions) ([]models.Session, error) {
	s.mu.RLock()
	out := make([]models.Session, 0)
	for _, session := range s.sessions {
		if matches(session, filter) {
			out = append(out, session)
		}
	}
	s.mu.RUnlock()

	switch opts.Sort {
	case models.SortEntryDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].EntryTime.After(out[j].EntryTime) })
	case models.SortExitDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ExitTime.Time.After(out[j].ExitTime.Time) })
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func matches(session models.Session, f models.SessionFilter) bool {
	switch {
	case f.ID != "" && session.ID != f.ID:
		return false
	case f.Plate != "" && session.Plate != f.Plate:
		return false
	case f.PlateContains != "" && !strings.Contains(strings.ToUpper(session.Plate), strings.ToUpper(f.PlateContains)):
		return false
	case f.Status != "" && session.Status != f.Status:
		return false
	case !f.ExitFrom.IsZero() && (!session.ExitTime.Valid || session.ExitTime.Time.Before(f.ExitFrom)):
		return false
	case !f.ExitTo.IsZero() && (!session.ExitTime.Valid || session.ExitTime.Time.After(f.ExitTo)):
		return false
	}
	return true
}

// UpdateFields applies update when the stored status equals update.ExpectStatus.
func (s *Store) UpdateFields(_ context.Context, id string, update models.SessionUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	if update.ExpectStatus != "" && session.Status != update.ExpectStatus {
		return false, nil
	}
	session.EntryTime = update.EntryTime
	session.ExitTime = null.TimeFrom(update.ExitTime)
	session.Category = update.Category
	session.Status = update.Status
	session.ChargedAmount = null.FloatFrom(update.ChargedAmount)
	s.sessions[id] = session
	return true, nil
}

// DeleteOne removes the session with id.
func (s *Store) DeleteOne(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return 0, nil
	}
	delete(s.sessions, id)
	return 1, nil
}

// DeleteAll removes every session.
func (s *Store) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int64(len(s.sessions))
	s.sessions = make(map[string]models.Session)
	return n, nil
}

// GetPriceConfig returns the saved table, if any.
func (s *Store) GetPriceConfig(_ context.Context) (models.RateTable, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rates == nil {
		return nil, false, nil
	}
	return s.rates.Clone(), true, nil
}

// SetPriceConfig replaces the saved table.
func (s *Store) SetPriceConfig(_ context.Context, table models.RateTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = table.Clone()
	return nil
}
