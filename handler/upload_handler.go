package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/types"
)

type Ingester interface {
	Ingest(ctx context.Context, filename string, src io.Reader) (*types.IngestResult, error)
}

type UploadHandler struct {
	ingester Ingester
}

func NewUploadHandler(ingester Ingester) *UploadHandler {
	return &UploadHandler{
		ingester: ingester,
	}
}

func (h *UploadHandler) UploadDocumentHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	result, err := h.ingester.Ingest(c.Request.Context(), header.Filename, file)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
