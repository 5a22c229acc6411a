package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCollectionDoc struct {
	Name      string    `bson:"_id"`
	Data      string    `bson:"data"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend stores each collection as one document keyed by name.
type MongoBackend struct {
	coll *mongo.Collection
}

func NewMongoBackend(db *mongo.Database, collection string) *MongoBackend {
	return &MongoBackend{coll: db.Collection(collection)}
}

func (m *MongoBackend) Load(ctx context.Context, name string) ([]byte, int64, error) {
	var doc mongoCollectionDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load collection %s: %w", name, err)
	}
	return []byte(doc.Data), doc.Version, nil
}

func (m *MongoBackend) Save(ctx context.Context, name string, blob []byte, expectedVersion int64) (int64, error) {
	next := expectedVersion + 1
	now := time.Now().UTC()

	if expectedVersion == 0 {
		_, err := m.coll.InsertOne(ctx, mongoCollectionDoc{
			Name:      name,
			Data:      string(blob),
			Version:   next,
			UpdatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return 0, ErrVersionConflict
		}
		if err != nil {
			return 0, fmt.Errorf("save collection %s: %w", name, err)
		}
		return next, nil
	}

	res, err := m.coll.UpdateOne(ctx,
		bson.M{"_id": name, "version": expectedVersion},
		bson.M{"$set": bson.M{"data": string(blob), "version": next, "updatedAt": now}},
	)
	if err != nil {
		return 0, fmt.Errorf("save collection %s: %w", name, err)
	}
	if res.MatchedCount == 0 {
		return 0, ErrVersionConflict
	}
	return next, nil
}

// Close disconnects the client behind the collection.
func (m *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.coll.Database().Client().Disconnect(ctx)
}
