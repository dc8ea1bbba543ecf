package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"parkledger/backend/services/ledger-service/internal/models"
)

const priceConfigType = "price_config"

// PriceConfigRepository stores the rate table as a single JSONB row.
type PriceConfigRepository struct {
	db *sql.DB
}

// NewPriceConfigRepository returns repository.
func NewPriceConfigRepository(db *sql.DB) *PriceConfigRepository {
	return &PriceConfigRepository{db: db}
}

// GetPriceConfig returns the persisted table; ok is false when none was saved yet.
func (r *PriceConfigRepository) GetPriceConfig(ctx context.Context) (models.RateTable, bool, error) {
	const query = `SELECT prices FROM price_config WHERE type = $1`

	var raw []byte
	if err := r.db.QueryRowContext(ctx, query, priceConfigType).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var table models.RateTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, false, fmt.Errorf("repository: decode price config: %w", err)
	}
	return table, true, nil
}

// SetPriceConfig replaces the persisted table wholesale.
func (r *PriceConfigRepository) SetPriceConfig(ctx context.Context, table models.RateTable) error {
	const query = `
		INSERT INTO price_config (type, prices, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (type) DO UPDATE SET
			prices = EXCLUDED.prices,
			updated_at = NOW()
	`
	payload, err := json.Marshal(table)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, priceConfigType, string(payload))
	return err
}
