package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/guregu/null.v4"

	"parkledger/backend/services/ledger-service/internal/billing"
	"parkledger/backend/services/ledger-service/internal/models"
	redisstore "parkledger/backend/services/ledger-service/internal/redis"
	"parkledger/backend/services/ledger-service/internal/repository"
)

// DefaultHistoryLimit caps history listings.
const DefaultHistoryLimit = 50

// SessionsService enforces the parked -> finalized lifecycle.
type SessionsService struct {
	store        SessionStore
	locker       PlateLocker
	events       EventPublisher
	logger       *zap.Logger
	historyLimit int
	now          func() time.Time
}

// SessionsOptions carries the optional collaborators of SessionsService.
type SessionsOptions struct {
	Locker       PlateLocker
	Events       EventPublisher
	HistoryLimit int
	Now          func() time.Time
}

// OpenSessionInput is the data recorded when a vehicle enters.
type OpenSessionInput struct {
	Plate     string
	Category  models.Category
	EntryTime time.Time
}

// CloseSessionInput carries the operator-confirmed values for finalization.
// Zero EntryTime or empty Category keep the stored values; zero ExitTime means now.
type CloseSessionInput struct {
	ID        string
	EntryTime time.Time
	ExitTime  time.Time
	Category  models.Category
}

// HistoryQuery selects finalized sessions by exit time.
type HistoryQuery struct {
	From  time.Time
	To    time.Time
	Plate string
	Limit int
}

// Quote is the charge a close would record right now.
type Quote struct {
	Session   *models.Session   `json:"session"`
	EntryTime time.Time         `json:"entry_time"`
	ExitTime  time.Time         `json:"exit_time"`
	Category  models.Category   `json:"category"`
	Breakdown billing.Breakdown `json:"breakdown"`
}

// NewSessionsService builds service.
func NewSessionsService(store SessionStore, logger *zap.Logger, opts SessionsOptions) *SessionsService {
	if opts.Locker == nil {
		opts.Locker = NewLocalPlateLocker()
	}
	if opts.Events == nil {
		opts.Events = noopPublisher{}
	}
	if opts.HistoryLimit <= 0 || opts.HistoryLimit > DefaultHistoryLimit {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SessionsService{
		store:        store,
		locker:       opts.Locker,
		events:       opts.Events,
		logger:       logger,
		historyLimit: opts.HistoryLimit,
		now:          opts.Now,
	}
}

// Open records a vehicle entry. A plate may hold at most one parked session.
func (s *SessionsService) Open(ctx context.Context, input OpenSessionInput) (*models.Session, error) {
	plate := models.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, validationErr("plate is required")
	}
	if !input.Category.Valid() {
		return nil, validationErr("unknown category %q", input.Category)
	}
	if input.EntryTime.IsZero() {
		input.EntryTime = s.now()
	}

	release, err := s.locker.Lock(ctx, plate)
	if err != nil {
		if errors.Is(err, redisstore.ErrLocked) {
			return nil, conflictErr("plate %s is being registered", plate)
		}
		return nil, storeErr("lock", err)
	}
	defer release()

	_, err = s.store.FindOne(ctx, models.SessionFilter{Plate: plate, Status: models.StatusParked})
	switch {
	case err == nil:
		return nil, conflictErr("plate %s is already parked", plate)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storeErr("find", err)
	}

	session := &models.Session{
		Plate:     plate,
		Category:  input.Category,
		EntryTime: input.EntryTime.UTC(),
		Status:    models.StatusParked,
	}
	id, err := s.store.Insert(ctx, session)
	if err != nil {
		if errors.Is(err, repository.ErrActiveExists) {
			return nil, conflictErr("plate %s is already parked", plate)
		}
		return nil, storeErr("insert", err)
	}
	session.ID = id

	s.logger.Info("session opened",
		zap.String("session_id", id),
		zap.String("plate", plate),
		zap.String("category", string(session.Category)),
	)
	s.events.Publish(models.Event{
		Type:      models.EventSessionOpened,
		SessionID: id,
		Plate:     plate,
		Category:  session.Category,
		At:        s.now().UTC(),
	})
	return session, nil
}

// Quote computes what Close would charge without persisting anything.
func (s *SessionsService) Quote(ctx context.Context, input CloseSessionInput, rates models.RateTable) (*Quote, error) {
	session, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !session.IsParked() {
		return nil, conflictErr("session %s is already finalized", session.ID)
	}
	entry, exit, category, err := s.resolveClose(session, input)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Session:   session,
		EntryTime: entry,
		ExitTime:  exit,
		Category:  category,
		Breakdown: billing.Explain(entry, exit, category, rates),
	}, nil
}

// Close finalizes a parked session, freezing the charged amount.
// Closing an already finalized session is rejected.
func (s *SessionsService) Close(ctx context.Context, input CloseSessionInput, rates models.RateTable) (*models.Session, error) {
	session, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !session.IsParked() {
		return nil, conflictErr("session %s is already finalized", session.ID)
	}
	entry, exit, category, err := s.resolveClose(session, input)
	if err != nil {
		return nil, err
	}

	amount := billing.ComputeCharge(entry, exit, category, rates)
	applied, err := s.store.UpdateFields(ctx, session.ID, models.SessionUpdate{
		EntryTime:     entry,
		ExitTime:      exit,
		Category:      category,
		Status:        models.StatusFinalized,
		ChargedAmount: amount,
		ExpectStatus:  models.StatusParked,
	})
	if err != nil {
		return nil, storeErr("update", err)
	}
	if !applied {
		return nil, conflictErr("session %s was finalized concurrently", session.ID)
	}

	session.EntryTime = entry
	session.ExitTime = null.TimeFrom(exit)
	session.Category = category
	session.Status = models.StatusFinalized
	session.ChargedAmount = null.FloatFrom(amount)

	s.logger.Info("session finalized",
		zap.String("session_id", session.ID),
		zap.String("plate", session.Plate),
		zap.Float64("amount", amount),
	)
	s.events.Publish(models.Event{
		Type:      models.EventSessionClosed,
		SessionID: session.ID,
		Plate:     session.Plate,
		Category:  category,
		Amount:    &amount,
		At:        s.now().UTC(),
	})
	return session, nil
}

func (s *SessionsService) resolveClose(session *models.Session, input CloseSessionInput) (time.Time, time.Time, models.Category, error) {
	entry := input.EntryTime
	if entry.IsZero() {
		entry = session.EntryTime
	}
	exit := input.ExitTime
	if exit.IsZero() {
		exit = s.now()
	}
	category := input.Category
	if category == "" {
		category = session.Category
	}
	if !category.Valid() {
		return time.Time{}, time.Time{}, "", validationErr("unknown category %q", category)
	}
	if exit.Before(entry) {
		return time.Time{}, time.Time{}, "", validationErr("exit time %s is before entry time %s",
			exit.Format(time.RFC3339), entry.Format(time.RFC3339))
	}
	return entry.UTC(), exit.UTC(), category, nil
}

// Get returns one session by id.
func (s *SessionsService) Get(ctx context.Context, id string) (*models.Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	session, err := s.store.FindOne(ctx, models.SessionFilter{ID: id})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("find", err)
	}
	return session, nil
}

// Remove deletes a session regardless of status. An unknown id yields
// ErrNotFound, which callers report rather than treat as a failure.
func (s *SessionsService) Remove(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteOne(ctx, strings.TrimSpace(id))
	if err != nil {
		return storeErr("delete", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	s.logger.Info("session removed", zap.String("session_id", id))
	s.events.Publish(models.Event{Type: models.EventSessionRemoved, SessionID: id, At: s.now().UTC()})
	return nil
}

// Purge deletes every session and returns how many were removed.
func (s *SessionsService) Purge(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, storeErr("delete all", err)
	}
	s.logger.Info("sessions purged", zap.Int64("deleted", deleted))
	s.events.Publish(models.Event{Type: models.EventSessionsPurged, Count: deleted, At: s.now().UTC()})
	return deleted, nil
}

// Active lists parked sessions, newest entry first.
func (s *SessionsService) Active(ctx context.Context, plateQuery string) ([]models.Session, error) {
	sessions, err := s.store.FindMany(ctx, models.SessionFilter{
		Status:        models.StatusParked,
		PlateContains: models.NormalizePlate(plateQuery),
	}, models.FindOptions{Sort: models.SortEntryDesc})
	if err != nil {
		return nil, storeErr("find many", err)
	}
	return sessions, nil
}

// History lists finalized sessions by exit time, newest first, capped at the history limit.
func (s *SessionsService) History(ctx context.Context, query HistoryQuery) ([]models.Session, error) {
	if !query.From.IsZero() && !query.To.IsZero() && query.To.Before(query.From) {
		return nil, validationErr("range end is before range start")
	}
	limit := query.Limit
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}
	sessions, err := s.store.FindMany(ctx, models.SessionFilter{
		Status:        models.StatusFinalized,
		PlateContains: models.NormalizePlate(query.Plate),
		ExitFrom:      query.From,
		ExitTo:        query.To,
	}, models.FindOptions{Sort: models.SortExitDesc, Limit: limit})
	if err != nil {
		return nil, storeErr("find many", err)
	}
	return sessions, nil
}
