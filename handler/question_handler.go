package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/service"
	"github.com/tieubaoca/feasibility-be/types"
)

type QuestionGenerator interface {
	Generate(ctx context.Context, query string) (*service.GenerationResult, error)
}

type QuestionHandler struct {
	generator QuestionGenerator
}

func NewQuestionHandler(generator QuestionGenerator) *QuestionHandler {
	return &QuestionHandler{
		generator: generator,
	}
}

// HandleGenerate answers with the parsed questions as an ordered
// {"Q1": ["question", "hint"], ...} object.
func (h *QuestionHandler) HandleGenerate(c *gin.Context) {
	var req types.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.Query)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.Questions)
}
