package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/types"
)

//go:embed templates/home.html
var homePage []byte

func HandleHome(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", homePage)
}

func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": types.STATUS_OK})
}
