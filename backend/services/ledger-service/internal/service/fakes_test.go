package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/guregu/null.v4"

	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/repository"
)

type memoryStore struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]models.Session
	failWith error
	// staleUpdate makes UpdateFields report a lost race.
	staleUpdate bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]models.Session)}
}

func (m *memoryStore) put(s models.Session) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if s.ID == "" {
		s.ID = strconv.Itoa(m.seq)
	}
	m.sessions[s.ID] = s
	return s.ID
}

func (m *memoryStore) get(id string) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// snapshot copies every stored session keyed by id.
func (m *memoryStore) snapshot() map[string]models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.Session, len(m.sessions))
	for id, s := range m.sessions {
		out[id] = s
	}
	return out
}

func (m *memoryStore) Insert(_ context.Context, session *models.Session) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return "", m.failWith
	}
	for _, s := range m.sessions {
		if s.Plate == session.Plate && s.Status == models.StatusParked && session.Status == models.StatusParked {
			return "", repository.ErrActiveExists
		}
	}
	m.seq++
	id := strconv.Itoa(m.seq)
	stored := *session
	stored.ID = id
	m.sessions[id] = stored
	return id, nil
}

func (m *memoryStore) FindOne(ctx context.Context, filter models.SessionFilter) (*models.Session, error) {
	found, err := m.FindMany(ctx, filter, models.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, repository.ErrNotFound
	}
	return &found[0], nil
}

func (m *memoryStore) FindMany(_ context.Context, filter models.SessionFilter, opts models.FindOptions) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []models.Session
	for _, s := range m.sessions {
		if matches(s, filter) {
			out = append(out, s)
		}
	}
	switch opts.Sort {
	case models.SortEntryDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].EntryTime.After(out[j].EntryTime) })
	case models.SortExitDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].ExitTime.Time.After(out[j].ExitTime.Time) })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func matches(s models.Session, f models.SessionFilter) bool {
	if f.ID != "" && s.ID != f.ID {
		return false
	}
	if f.Plate != "" && s.Plate != f.Plate {
		return false
	}
	if f.PlateContains != "" && !strings.Contains(strings.ToUpper(s.Plate), strings.ToUpper(f.PlateContains)) {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if !f.ExitFrom.IsZero() && (!s.ExitTime.Valid || s.ExitTime.Time.Before(f.ExitFrom)) {
		return false
	}
	if !f.ExitTo.IsZero() && (!s.ExitTime.Valid || s.ExitTime.Time.After(f.ExitTo)) {
		return false
	}
	return true
}

func (m *memoryStore) UpdateFields(_ context.Context, id string, u models.SessionUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	s, ok := m.sessions[id]
	if !ok || m.staleUpdate || (u.ExpectStatus != "" && s.Status != u.ExpectStatus) {
		return false, nil
	}
	s.EntryTime = u.EntryTime
	s.ExitTime = null.TimeFrom(u.ExitTime)
	s.Category = u.Category
	s.Status = u.Status
	s.ChargedAmount = null.FloatFrom(u.ChargedAmount)
	m.sessions[id] = s
	return true, nil
}

func (m *memoryStore) DeleteOne(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	if _, ok := m.sessions[id]; !ok {
		return 0, nil
	}
	delete(m.sessions, id)
	return 1, nil
}

func (m *memoryStore) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := int64(len(m.sessions))
	m.sessions = make(map[string]models.Session)
	return n, nil
}

type memoryPriceConfig struct {
	table    models.RateTable
	failWith error
}

func (m *memoryPriceConfig) GetPriceConfig(context.Context) (models.RateTable, bool, error) {
	if m.failWith != nil {
		return nil, false, m.failWith
	}
	if m.table == nil {
		return nil, false, nil
	}
	return m.table.Clone(), true, nil
}

func (m *memoryPriceConfig) SetPriceConfig(_ context.Context, table models.RateTable) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.table = table.Clone()
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(e models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type lockerFunc func(ctx context.Context, plate string) (func(), error)

func (f lockerFunc) Lock(ctx context.Context, plate string) (func(), error) {
	return f(ctx, plate)
}

var errBackendDown = errors.New("backend down")
