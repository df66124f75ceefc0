package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/bootstrap"
)

// RegisterRoutes wires the HTTP surface: the question endpoint, a health
// probe, and the Prometheus scrape endpoint
func RegisterRoutes(r *gin.Engine, svcCtx *bootstrap.ServiceContext) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/question", NewQuestionHandler(svcCtx))
	}
}
