package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parkledger/backend/services/ledger-service/internal/models"
)

const (
	configCollection = "configuracoes"
	priceConfigType  = "price_config"
)

type priceConfigDocument struct {
	Type   string             `bson:"type"`
	Prices map[string]float64 `bson:"prices"`
}

// PriceConfigStore keeps the rate table in the {type: "price_config"} document of the configuracoes collection.
type PriceConfigStore struct {
	coll *mongo.Collection
}

// NewPriceConfigStore returns a store over the config collection of db.
func NewPriceConfigStore(db *mongo.Database) *PriceConfigStore {
	return &PriceConfigStore{coll: db.Collection(configCollection)}
}

// GetPriceConfig returns the persisted table; ok is false when the document is
// missing or has no prices field.
func (s *PriceConfigStore) GetPriceConfig(ctx context.Context) (models.RateTable, bool, error) {
	var doc priceConfigDocument
	err := s.coll.FindOne(ctx, bson.M{"type": priceConfigType}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if doc.Prices == nil {
		return nil, false, nil
	}

	table := make(models.RateTable, len(doc.Prices))
	for k, v := range doc.Prices {
		table[models.Category(k)] = v
	}
	return table, true, nil
}

// SetPriceConfig replaces the prices field wholesale, creating the document if needed.
func (s *PriceConfigStore) SetPriceConfig(ctx context.Context, table models.RateTable) error {
	prices := make(map[string]float64, len(table))
	for k, v := range table {
		prices[string(k)] = v
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"type": priceConfigType},
		bson.M{"$set": bson.M{"prices": prices}},
		options.Update().SetUpsert(true),
	)
	return err
}
