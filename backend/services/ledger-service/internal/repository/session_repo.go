package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/models"
)

const sessionColumns = `id, plate, tipo_veiculo, entrada, status, saida, valor_cobrado`

// SessionRepository persists parking sessions in PostgreSQL.
type SessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger, now: time.Now}
}

// Insert stores a new session and returns the generated id.
func (r *SessionRepository) Insert(ctx context.Context, session *models.Session) (string, error) {
	const query = `
		INSERT INTO parking_sessions (id, plate, tipo_veiculo, entrada, status, saida, valor_cobrado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id,
		session.Plate,
		string(session.Category),
		session.EntryTime,
		string(session.Status),
		session.ExitTime,
		session.ChargedAmount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrActiveExists
		}
		return "", err
	}
	session.ID = id
	return id, nil
}

// FindOne returns the first session matching filter or ErrNotFound.
func (r *SessionRepository) FindOne(ctx context.Context, filter models.SessionFilter) (*models.Session, error) {
	sessions, err := r.FindMany(ctx, filter, models.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrNotFound
	}
	return &sessions[0], nil
}

// FindMany returns sessions matching filter, ordered and capped per opts.
func (r *SessionRepository) FindMany(ctx context.Context, filter models.SessionFilter, opts models.FindOptions) ([]models.Session, error) {
	where, args := buildWhere(filter)

	var sb strings.Builder
	sb.WriteString("SELECT " + sessionColumns + " FROM parking_sessions")
	sb.WriteString(where)
	switch opts.Sort {
	case models.SortEntryDesc:
		sb.WriteString(" ORDER BY entrada DESC NULLS LAST")
	case models.SortExitDesc:
		sb.WriteString(" ORDER BY saida DESC NULLS LAST")
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateFields writes the finalization fields in one statement. It reports false
// when the id is unknown or the stored status no longer equals update.ExpectStatus.
func (r *SessionRepository) UpdateFields(ctx context.Context, id string, update models.SessionUpdate) (bool, error) {
	const query = `
		UPDATE parking_sessions
		SET entrada = $2,
		    saida = $3,
		    tipo_veiculo = $4,
		    status = $5,
		    valor_cobrado = $6,
		    updated_at = NOW()
		WHERE id = $1 AND status = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		id,
		update.EntryTime,
		update.ExitTime,
		string(update.Category),
		string(update.Status),
		update.ChargedAmount,
		string(update.ExpectStatus),
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// DeleteOne removes a session by id and returns the number of deleted rows.
func (r *SessionRepository) DeleteOne(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_sessions WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteAll removes every session.
func (r *SessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM parking_sessions`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SessionRepository) scan(row rowScanner) (models.Session, error) {
	var (
		id                      string
		plate, category, status sql.NullString
		entrada, saida          sql.NullTime
		valorCobrado            sql.NullFloat64
	)
	if err := row.Scan(&id, &plate, &category, &entrada, &status, &saida, &valorCobrado); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNotFound
		}
		return models.Session{}, err
	}

	raw := models.RawRecord{
		ID:            id,
		Plate:         nullString(plate),
		Category:      nullString(category),
		EntryTime:     nullTime(entrada),
		ExitTime:      nullTime(saida),
		Status:        nullString(status),
		ChargedAmount: nullFloat(valorCobrado),
	}
	session := models.NormalizeRecord(raw, r.now())
	if len(session.Repaired) > 0 {
		r.logger.Warn("record normalized",
			zap.String("session_id", id),
			zap.Strings("repaired", session.Repaired),
		)
	}
	return session, nil
}

func buildWhere(filter models.SessionFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.ID != "" {
		add("id = $%d", filter.ID)
	}
	if filter.Plate != "" {
		add("plate = $%d", filter.Plate)
	}
	if filter.PlateContains != "" {
		add("strpos(upper(plate), upper($%d)) > 0", filter.PlateContains)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if !filter.ExitFrom.IsZero() {
		add("saida >= $%d", filter.ExitFrom)
	}
	if !filter.ExitTo.IsZero() {
		add("saida <= $%d", filter.ExitTo)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
