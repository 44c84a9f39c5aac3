package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"report-function-service/internal/config"
	"report-function-service/internal/logging"
)

func NewRouter(logger *logging.Logger, cfg config.Config, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group(cfg.API.BasePath)
	{
		api.POST("/evaluations", h.QueueEvaluation)
		api.POST("/evaluations/preview", h.PreviewEvaluation)
		api.GET("/tags/template/:template_id", h.GetTagsByTemplate)
		api.GET("/runs/:tag_id", h.GetRunsByTag)
		api.GET("/functions", h.GetFunctionKinds)
	}

	r.GET("/ws", h.Subscribe)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
