package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/service"
	"github.com/tieubaoca/feasibility-be/types"
)

func sendError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{
		Status: types.STATUS_ERROR,
		Error:  message,
	})
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyQuery),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUpstream),
		errors.Is(err, service.ErrNoResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sendServiceError responds with the status matching err and records err on
// the context for the request logger.
func sendServiceError(c *gin.Context, err error) {
	c.Error(err)
	sendError(c, errorStatus(err), err.Error())
}
