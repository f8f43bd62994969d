package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/repository"
	"github.com/tieubaoca/feasibility-be/types"
)

// recordHistory stores record and only logs on failure.
func recordHistory(ctx context.Context, repo repository.HistoryRepo, log *zap.Logger, record types.HistoryRecord) {
	if repo == nil {
		return
	}
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().Unix()
	if err := repo.Create(ctx, &record); err != nil {
		log.Warn("failed to record history", zap.String("kind", record.Kind), zap.Error(err))
	}
}
