package api

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the flow endpoints on the router.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Health)

	auth := r.Group("/auth/google")
	{
		auth.GET("/start", h.Start)
		// Called by the provider's redirect inside the popup, not by the
		// embedding page.
		auth.GET("/callback", h.Callback)
		auth.GET("/status/:state", h.Status)
		// Legacy direct exchange, no session involved.
		auth.POST("/exchange", h.Exchange)
	}
}
