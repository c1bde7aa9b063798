package repository

import (
	"context"
	"testing"
	"time"

	"groundops-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoIncidentLogRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save assigns id", func(mt *mtest.T) {
		// createIndexes, then insert
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		repo := NewMongoIncidentLogRepository(mt.DB)

		log := &entity.IncidentLog{Reporter: "agent-7", Status: entity.IncidentStatusSent}
		require.NoError(mt, repo.Save(context.Background(), log))

		assert.NotEmpty(mt, log.ID)
		assert.False(mt, log.SentAt.IsZero())
	})

	mt.Run("find recent", func(mt *mtest.T) {
		sentAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
		ns := mt.Coll.Database().Name() + ".incidentLogs"
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: "a"},
					{Key: "messageId", Value: "m-1"},
					{Key: "status", Value: entity.IncidentStatusSent},
					{Key: "sentAt", Value: sentAt},
				},
				bson.D{
					{Key: "_id", Value: "b"},
					{Key: "status", Value: entity.IncidentStatusFailed},
					{Key: "errorDetail", Value: "quota"},
				},
			),
		)
		repo := NewMongoIncidentLogRepository(mt.DB)

		logs, err := repo.FindRecent(context.Background(), 10)
		require.NoError(mt, err)
		require.Len(mt, logs, 2)
		assert.Equal(mt, "m-1", logs[0].MessageID)
		assert.True(mt, sentAt.Equal(logs[0].SentAt))
		assert.Equal(mt, "quota", logs[1].ErrorDetail)
	})
}
