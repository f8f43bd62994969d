package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tieubaoca/feasibility-be/middleware"
)

// RouterDeps are the services behind the HTTP API. JWTSecret protects the
// upload route when set.
type RouterDeps struct {
	Questions QuestionGenerator
	Asker     PDFAsker
	Ingester  Ingester
	History   HistoryLister
	Streamer  http.HandlerFunc
	UploadDir string
	JWTSecret string
	Log       *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.L()
	}

	corsHandler := NewCorsHandler()
	questionHandler := NewQuestionHandler(deps.Questions)
	askHandler := NewAskPDFHandler(deps.Asker)
	uploadHandler := NewUploadHandler(deps.Ingester)
	documentHandler := NewDocumentHandler(deps.UploadDir)
	historyHandler := NewHistoryHandler(deps.History)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), corsHandler.CorsMiddleware)

	router.GET("/", HandleHome)
	router.GET("/healthz", HandleHealth)
	router.POST("/ai/", questionHandler.HandleGenerate)
	router.POST("/ask_pdf/", askHandler.HandleAsk)
	router.GET("/history/", historyHandler.HandleList)
	router.GET("/documents/:name", documentHandler.ServeDocument)
	if deps.Streamer != nil {
		router.GET("/ws/ai/", gin.WrapF(deps.Streamer))
	}

	upload := []gin.HandlerFunc{uploadHandler.UploadDocumentHandler}
	if deps.JWTSecret != "" {
		upload = append([]gin.HandlerFunc{middleware.AdminAuthMiddleware(deps.JWTSecret)}, upload...)
	}
	router.POST("/pdf/", upload...)

	return router
}
