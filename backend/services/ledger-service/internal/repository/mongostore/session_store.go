// Package mongostore implements the session and price-config stores on MongoDB,
// using the same document layout the ledger has always written.
package mongostore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"parkledger/backend/services/ledger-service/internal/models"
	"parkledger/backend/services/ledger-service/internal/repository"
)

const sessionsCollection = "veiculos"

type sessionDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Plate         *string            `bson:"plate,omitempty"`
	LegacyPlate   *string            `bson:"placa,omitempty"`
	Category      *string            `bson:"tipo_veiculo,omitempty"`
	EntryTime     *time.Time         `bson:"entrada,omitempty"`
	Status        *string            `bson:"status,omitempty"`
	ExitTime      *time.Time         `bson:"saida,omitempty"`
	ChargedAmount *float64           `bson:"valor_cobrado,omitempty"`
}

// SessionStore persists parking sessions as documents.
type SessionStore struct {
	coll   *mongo.Collection
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionStore returns a store over the sessions collection of db.
func NewSessionStore(db *mongo.Database, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		coll:   db.Collection(sessionsCollection),
		logger: logger,
		now:    time.Now,
	}
}

// EnsureIndexes copies legacy placa values into plate, then creates the
// partial unique index that allows at most one parked document per plate,
// plus the index used by history queries.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"placa": bson.M{"$exists": true}, "plate": bson.M{"$exists": false}},
		mongo.Pipeline{{{Key: "$set", Value: bson.M{"plate": "$placa"}}}},
	)
	if err != nil {
		return err
	}
	if res.ModifiedCount > 0 {
		s.logger.Info("legacy plates copied", zap.Int64("documents", res.ModifiedCount))
	}

	_, err = s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "plate", Value: 1}},
			Options: options.Index().
				SetName("one_parked_per_plate").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": string(models.StatusParked),
					"plate":  bson.M{"$exists": true},
				}),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "saida", Value: -1}},
			Options: options.Index().SetName("status_saida"),
		},
	})
	return err
}

// Insert stores a new session and returns its ObjectID as hex.
func (s *SessionStore) Insert(ctx context.Context, session *models.Session) (string, error) {
	category := string(session.Category)
	status := string(session.Status)
	doc := sessionDocument{
		Plate:     &session.Plate,
		Category:  &category,
		EntryTime: &session.EntryTime,
		Status:    &status,
	}
	if session.ExitTime.Valid {
		doc.ExitTime = &session.ExitTime.Time
	}
	if session.ChargedAmount.Valid {
		doc.ChargedAmount = &session.ChargedAmount.Float64
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", repository.ErrActiveExists
		}
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("mongostore: unexpected inserted id type")
	}
	session.ID = oid.Hex()
	return session.ID, nil
}

// FindOne returns the first document matching filter or repository.ErrNotFound.
func (s *SessionStore) FindOne(ctx context.Context, filter models.SessionFilter) (*models.Session, error) {
	query, ok := buildFilter(filter)
	if !ok {
		return nil, repository.ErrNotFound
	}

	var doc sessionDocument
	if err := s.coll.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	session := s.toSession(doc)
	return &session, nil
}

// FindMany returns documents matching filter, ordered and capped per opts.
func (s *SessionStore) FindMany(ctx context.Context, filter models.SessionFilter, opts models.FindOptions) ([]models.Session, error) {
	query, ok := buildFilter(filter)
	if !ok {
		return []models.Session{}, nil
	}

	findOpts := options.Find()
	switch opts.Sort {
	case models.SortEntryDesc:
		findOpts.SetSort(bson.D{{Key: "entrada", Value: -1}})
	case models.SortExitDesc:
		findOpts.SetSort(bson.D{{Key: "saida", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := make([]models.Session, 0)
	for cursor.Next(ctx) {
		var doc sessionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		sessions = append(sessions, s.toSession(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateFields applies the finalization fields with a single $set, guarded by
// the expected current status.
func (s *SessionStore) UpdateFields(ctx context.Context, id string, update models.SessionUpdate) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(update.ExpectStatus)},
		bson.M{"$set": bson.M{
			"entrada":       update.EntryTime,
			"saida":         update.ExitTime,
			"tipo_veiculo":  string(update.Category),
			"status":        string(update.Status),
			"valor_cobrado": update.ChargedAmount,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// DeleteOne removes a document by id and returns the deleted count.
func (s *SessionStore) DeleteOne(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAll removes every session document.
func (s *SessionStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *SessionStore) toSession(doc sessionDocument) models.Session {
	session := models.NormalizeRecord(models.RawRecord{
		ID:            doc.ID.Hex(),
		Plate:         doc.Plate,
		LegacyPlate:   doc.LegacyPlate,
		Category:      doc.Category,
		EntryTime:     doc.EntryTime,
		ExitTime:      doc.ExitTime,
		Status:        doc.Status,
		ChargedAmount: doc.ChargedAmount,
	}, s.now())
	if len(session.Repaired) > 0 {
		s.logger.Warn("record normalized",
			zap.String("session_id", session.ID),
			zap.Strings("repaired", session.Repaired),
		)
	}
	return session
}

// plateMatch matches v against plate and against placa, which documents
// written before the field rename still carry.
func plateMatch(v interface{}) bson.A {
	return bson.A{bson.M{"plate": v}, bson.M{"placa": v}}
}

// buildFilter translates a SessionFilter into a query document. ok is false
// when the filter cannot match anything (an id that is not an ObjectID).
func buildFilter(filter models.SessionFilter) (bson.M, bool) {
	query := bson.M{}
	if filter.ID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ID)
		if err != nil {
			return nil, false
		}
		query["_id"] = oid
	}
	var plates bson.A
	if filter.Plate != "" {
		plates = append(plates, bson.M{"$or": plateMatch(filter.Plate)})
	}
	if filter.PlateContains != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.PlateContains), Options: "i"}
		plates = append(plates, bson.M{"$or": plateMatch(pattern)})
	}
	switch len(plates) {
	case 1:
		query["$or"] = plates[0].(bson.M)["$or"]
	case 2:
		query["$and"] = plates
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	exit := bson.M{}
	if !filter.ExitFrom.IsZero() {
		exit["$gte"] = filter.ExitFrom
	}
	if !filter.ExitTo.IsZero() {
		exit["$lte"] = filter.ExitTo
	}
	if len(exit) > 0 {
		query["saida"] = exit
	}
	return query, true
}
