package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groundops-service/internal/domain/repository"
	"groundops-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mirrorDocument is one remote collection document, keyed by its path
type mirrorDocument struct {
	Path      string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// changeEvent is the subset of a change stream event we read
type changeEvent struct {
	OperationType string          `bson:"operationType"`
	FullDocument  *mirrorDocument `bson:"fullDocument"`
}

// MongoDocumentStore implements DocumentStore on a MongoDB collection.
// Watch relies on change streams, which need a replica set.
type MongoDocumentStore struct {
	collection *mongo.Collection
	logger     logger.Logger
}

// NewMongoDocumentStore creates a document store on the named collection
func NewMongoDocumentStore(db *mongo.Database, name string, logger logger.Logger) repository.DocumentStore {
	collection := db.Collection(name)

	// Index on updatedAt for operational queries
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	updatedIndex := mongo.IndexModel{
		Keys: bson.M{"updatedAt": -1},
	}
	if _, err := collection.Indexes().CreateOne(ctx, updatedIndex); err != nil {
		logger.Warn("Failed to create mirror index", "collection", name, "error", err)
	}

	return &MongoDocumentStore{
		collection: collection,
		logger:     logger,
	}
}

// Get returns the document at path, or nil
func (r *MongoDocumentStore) Get(ctx context.Context, path string) ([]byte, error) {
	var doc mirrorDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": path}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return []byte(doc.Payload), nil
}

// Set overwrites the document at path
func (r *MongoDocumentStore) Set(ctx context.Context, path string, doc []byte) error {
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": path},
		bson.M{"$set": bson.M{
			"payload":   string(doc),
			"updatedAt": time.Now(),
		}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Watch opens a change stream on the document and delivers the current value first
func (r *MongoDocumentStore) Watch(ctx context.Context, path string, fn func([]byte)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: path}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := r.collection.Watch(ctx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	current, err := r.Get(ctx, path)
	if err != nil {
		stream.Close(context.Background())
		cancel()
		return nil, err
	}
	fn(current)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var event changeEvent
			if err := stream.Decode(&event); err != nil {
				r.logger.Error("Failed to decode change event", "path", path, "error", err)
				continue
			}
			fn(eventPayload(event))
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			r.logger.Error("Change stream ended", "path", path, "error", err)
		}
	}()

	return cancel, nil
}

// eventPayload maps a change event to the delivered document
func eventPayload(event changeEvent) []byte {
	if event.OperationType == "delete" || event.FullDocument == nil {
		return nil
	}
	return []byte(event.FullDocument.Payload)
}
