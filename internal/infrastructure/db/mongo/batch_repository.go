package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

const (
	collectionBatches = "inventory_batches"
	batchRetention    = 180 * 24 * time.Hour
	opTimeout         = 10 * time.Second
)

// BatchRepository stores inventory save reports, one document per batch.
type BatchRepository struct {
	col *mongo.Collection
}

func NewBatchRepository(db *mongo.Database) *BatchRepository {
	return &BatchRepository{col: db.Collection(collectionBatches)}
}

// Insert writes a report. Re-inserting the same batch id is a no-op.
func (r *BatchRepository) Insert(ctx context.Context, report *domain.BatchReport) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, report)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("insert batch %s: %w", report.ID, err)
	}
	return nil
}

// ListRecent returns the newest reports of an apartment, newest first.
func (r *BatchRepository) ListRecent(ctx context.Context, apartmentID int64, limit int) ([]domain.BatchReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"apartment_id": apartmentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]domain.BatchReport, 0, limit)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the lookup index and the retention TTL index.
func (r *BatchRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "apartment_id", Value: 1}, {Key: "started_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "finished_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(batchRetention.Seconds())),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
