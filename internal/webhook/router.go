package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the two ingestion endpoints plus a liveness check.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/", h.HandleAbandonedCart)
	r.POST("/woocommerce", h.HandleOrder)

	return r
}
