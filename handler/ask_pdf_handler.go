package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/types"
)

type PDFAsker interface {
	Ask(ctx context.Context, query string) (*types.AskResponse, error)
}

type AskPDFHandler struct {
	asker PDFAsker
}

func NewAskPDFHandler(asker PDFAsker) *AskPDFHandler {
	return &AskPDFHandler{
		asker: asker,
	}
}

func (h *AskPDFHandler) HandleAsk(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.asker.Ask(c.Request.Context(), req.Query)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
