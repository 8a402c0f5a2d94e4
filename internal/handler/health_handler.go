package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docextract/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	orderService service.OrderService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(orderService service.OrderService) *HealthHandler {
	return &HealthHandler{orderService: orderService}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health handles GET /api/health
// @Summary API health
// @Description Reports API status together with order store statistics.
// @Tags health
// @Produce json
// @Success 200 {object} Response{data=HealthResponse} "API is healthy"
// @Failure 500 {object} ErrorResponseBody "Order store unreadable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	stats, err := h.orderService.GetStats(c.Request.Context(), false)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, HealthResponse{
		Status:   "healthy",
		Message:  "Document Extraction API is running",
		Database: stats,
	})
}
