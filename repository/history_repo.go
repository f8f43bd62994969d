package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tieubaoca/feasibility-be/types"
)

const DEFAULT_HISTORY_LIMIT = 20

type HistoryRepo interface {
	Create(ctx context.Context, record *types.HistoryRecord) error
	List(ctx context.Context, limit int64) ([]types.HistoryRecord, error)
}

type historyRepo struct {
	collection *mongo.Collection
}

func NewHistoryRepo(collection *mongo.Collection) HistoryRepo {
	return &historyRepo{
		collection: collection,
	}
}

// EnsureHistoryIndexes creates the indexes List and per-kind lookups rely on.
// Creating an existing index is a no-op.
func EnsureHistoryIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "kind", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *historyRepo) Create(ctx context.Context, record *types.HistoryRecord) error {
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

// List returns the most recent records first.
func (r *historyRepo) List(ctx context.Context, limit int64) ([]types.HistoryRecord, error) {
	if limit <= 0 {
		limit = DEFAULT_HISTORY_LIMIT
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]types.HistoryRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// nopHistoryRepo is used when no MongoDB is configured.
type nopHistoryRepo struct{}

func NewNopHistoryRepo() HistoryRepo {
	return nopHistoryRepo{}
}

func (nopHistoryRepo) Create(context.Context, *types.HistoryRecord) error {
	return nil
}

func (nopHistoryRepo) List(context.Context, int64) ([]types.HistoryRecord, error) {
	return []types.HistoryRecord{}, nil
}
