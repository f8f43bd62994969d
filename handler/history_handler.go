package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/types"
)

const MAX_HISTORY_LIMIT = 100

type HistoryLister interface {
	List(ctx context.Context, limit int64) ([]types.HistoryRecord, error)
}

type HistoryHandler struct {
	history HistoryLister
}

func NewHistoryHandler(history HistoryLister) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// HandleList returns the most recent records, newest first. limit defaults
// to 20 and is capped at 100.
func (h *HistoryHandler) HandleList(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			sendError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MAX_HISTORY_LIMIT)
	}

	records, err := h.history.List(c.Request.Context(), limit)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.HistoryResponse{Records: records})
}
