package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Column names mirror the document layout other tools read: plate, tipo_veiculo,
// entrada, status, saida, valor_cobrado. They are nullable so legacy imports load;
// missing values are repaired on read.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS parking_sessions (
		id            TEXT PRIMARY KEY,
		plate         TEXT,
		tipo_veiculo  TEXT,
		entrada       TIMESTAMPTZ,
		status        TEXT,
		saida         TIMESTAMPTZ,
		valor_cobrado DOUBLE PRECISION,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS parking_sessions_one_parked_per_plate
		ON parking_sessions (plate) WHERE status = 'estacionado'`,
	`CREATE INDEX IF NOT EXISTS parking_sessions_status_saida
		ON parking_sessions (status, saida DESC)`,
	`CREATE TABLE IF NOT EXISTS price_config (
		type       TEXT PRIMARY KEY,
		prices     JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the tables and indexes used by the PostgreSQL stores.
// The partial unique index is what makes "one parked session per plate" hold
// under concurrent inserts.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("repository: ensure schema: %w", err)
		}
	}
	return nil
}
