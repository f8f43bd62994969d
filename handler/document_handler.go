package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/utils"
)

type DocumentHandler struct {
	uploadDir string
}

func NewDocumentHandler(uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		uploadDir: uploadDir,
	}
}

// ServeDocument streams a previously uploaded PDF inline.
func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	requestedName := c.Param("name")
	name := utils.SanitizeFileName(requestedName)
	if name == "" || name != requestedName {
		sendError(c, http.StatusBadRequest, "Invalid file name")
		return
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		sendError(c, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	filePath := filepath.Join(h.uploadDir, name)
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		sendError(c, http.StatusNotFound, "File not found")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	c.File(filePath)
}
