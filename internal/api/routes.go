package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. metrics may be nil.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/headlines", handler.ListHeadlines)
		v1.GET("/headlines/:source", handler.SourceHeadlines)
		v1.GET("/layout", handler.Layout)
		v1.GET("/resolve", handler.Resolve)
	}
}
