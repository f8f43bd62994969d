package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tieubaoca/feasibility-be/types"
)

func TestNopHistoryRepo(t *testing.T) {
	repo := NewNopHistoryRepo()
	if err := repo.Create(context.Background(), &types.HistoryRecord{ID: "1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	records, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty, non-nil list, got %v", records)
	}
}

// TestHistoryRepoMongo runs against a real server when MONGODB_TEST_URI is set.
func TestHistoryRepoMongo(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Disconnect(ctx)

	collection := client.Database("feasibility_test").Collection("history_" + uuid.NewString()[:8])
	defer collection.Drop(ctx)
	if err := EnsureHistoryIndexes(ctx, collection); err != nil {
		t.Fatalf("EnsureHistoryIndexes: %v", err)
	}

	repo := NewHistoryRepo(collection)
	for i, kind := range []string{types.HISTORY_KIND_QUESTIONS, types.HISTORY_KIND_ASK, types.HISTORY_KIND_INGEST} {
		record := &types.HistoryRecord{ID: uuid.NewString(), Kind: kind, CreatedAt: int64(100 + i)}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	records, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 || records[0].Kind != types.HISTORY_KIND_INGEST || records[1].Kind != types.HISTORY_KIND_ASK {
		t.Fatalf("records = %+v", records)
	}
}
