package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indicates the session (or config row) does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrActiveExists indicates the plate already has a parked session.
	ErrActiveExists = errors.New("plate already has a parked session")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
