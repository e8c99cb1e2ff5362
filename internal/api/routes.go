package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all service routes.
// The scoring endpoints are public: the browser form posts directly.
func SetupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler) {
	router.GET("/health", handler.Health)
	router.HEAD("/health", handler.Health)
	router.GET("/ready", handler.Ready)

	router.POST("/predict", handler.Predict)

	v1 := router.Group("/api/v1")
	v1.GET("/weights", handler.GetWeights)

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
