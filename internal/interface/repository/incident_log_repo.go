// internal/interface/repository/incident_log_repo.go
package repository

import (
	"context"
	"time"

	"groundops-service/internal/domain/entity"
	"groundops-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIncidentLogRepository implements the IncidentLogRepository interface
type MongoIncidentLogRepository struct {
	collection *mongo.Collection
}

// NewMongoIncidentLogRepository creates a new MongoDB incident log repository
func NewMongoIncidentLogRepository(db *mongo.Database) repository.IncidentLogRepository {
	collection := db.Collection("incidentLogs")

	ctx := context.Background()

	// Index on sentAt for most-recent-first listing
	sentAtIndex := mongo.IndexModel{
		Keys: bson.M{"sentAt": -1},
	}

	// Index on status for finding failed deliveries
	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		sentAtIndex,
		statusIndex,
	})

	return &MongoIncidentLogRepository{
		collection: collection,
	}
}

// Save saves a delivery attempt
func (r *MongoIncidentLogRepository) Save(ctx context.Context, log *entity.IncidentLog) error {
	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	if log.SentAt.IsZero() {
		log.SentAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// FindRecent returns the latest delivery attempts, most recent first
func (r *MongoIncidentLogRepository) FindRecent(ctx context.Context, limit int) ([]*entity.IncidentLog, error) {
	limit64 := int64(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Limit: &limit64,
		Sort:  bson.D{{Key: "sentAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*entity.IncidentLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}
