package handler

import (
	"github.com/gin-gonic/gin"

	"docextract/internal/service"
)

// LLMHandler reports extraction provider configuration.
type LLMHandler struct {
	invoiceService service.InvoiceService
}

// NewLLMHandler creates a new LLMHandler.
func NewLLMHandler(invoiceService service.InvoiceService) *LLMHandler {
	return &LLMHandler{invoiceService: invoiceService}
}

// Status handles GET /api/llm/status
// @Summary Extraction provider status
// @Description Lists providers, whether each has credentials, and the failover order.
// @Tags llm
// @Produce json
// @Success 200 {object} Response{data=service.ProviderStatus} "Provider status"
// @Router /llm/status [get]
func (h *LLMHandler) Status(c *gin.Context) {
	RespondOK(c, h.invoiceService.ProviderStatus())
}
