package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/application/service"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/response"
)

// HealthHandler reports liveness and the current store size
type HealthHandler struct {
	serviceName    string
	invoiceService *service.InvoiceService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serviceName string, invoiceService *service.InvoiceService) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, invoiceService: invoiceService}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	total, err := h.invoiceService.CountInvoices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  h.serviceName,
		"invoices": total,
	})
}
