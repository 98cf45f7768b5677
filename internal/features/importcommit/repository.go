package importcommit

import (
	"context"
	"time"

	"github.com/periljames/amo-portal-sub002/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BatchRepository interface {
	Upsert(ctx context.Context, batch *ImportBatch) error
	Get(ctx context.Context, batchID string) (*ImportBatch, error)
	FindByOperator(ctx context.Context, operator string, limit int64) ([]ImportBatch, error)
}

type BatchRepositoryImpl struct {
	collection *mongo.Collection
}

func NewBatchRepository(db *database.MongodbDB) BatchRepository {
	return &BatchRepositoryImpl{
		collection: db.DB.Collection("import_batches"),
	}
}

// Upsert keys on batch_id so repeated commit attempts of the same logical
// batch update one record instead of stacking duplicates
func (r *BatchRepositoryImpl) Upsert(ctx context.Context, batch *ImportBatch) error {
	now := time.Now()
	batch.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"entity_type":    batch.EntityType,
			"aircraft_id":    batch.AircraftID,
			"operator":       batch.Operator,
			"session_id":     batch.SessionID,
			"preview_id":     batch.PreviewID,
			"mode":           batch.Mode,
			"approved_count": batch.ApprovedCount,
			"created":        batch.Created,
			"updated":        batch.Updated,
			"last_error":     batch.LastError,
			"committed_at":   batch.CommittedAt,
			"updated_at":     batch.UpdatedAt,
		},
		"$inc":         bson.M{"attempts": 1},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"batch_id": batch.BatchID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *BatchRepositoryImpl) Get(ctx context.Context, batchID string) (*ImportBatch, error) {
	var batch ImportBatch
	if err := r.collection.FindOne(ctx, bson.M{"batch_id": batchID}).Decode(&batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *BatchRepositoryImpl) FindByOperator(ctx context.Context, operator string, limit int64) ([]ImportBatch, error) {
	filter := bson.M{}
	if operator != "" {
		filter["operator"] = operator
	}
	if limit <= 0 {
		limit = 50
	}

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"updated_at": -1}).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var batches []ImportBatch
	if err = cursor.All(ctx, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}
