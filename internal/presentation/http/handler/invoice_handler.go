package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/application/service"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	validator      *request.Validator
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, validator *request.Validator) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, validator: validator}
}

// List handles listing every invoice
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, invoices)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	req, err := h.validator.DecodeCreateInvoice(body)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		CompCode:  req.CompCode,
		Amount:    req.Amount,
		Recurring: req.Recurring,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, invoice)
}

// Get handles getting a single invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// Pay handles marking an invoice as paid
func (h *InvoiceHandler) Pay(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.PayInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// UpdateCard handles replacing the stored card digits
func (h *InvoiceHandler) UpdateCard(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	req, err := h.validator.DecodeUpdateCard(body)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateCard(c.Request.Context(), id, req.CardLast4)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// EnableAutoBill handles enabling auto-billing
func (h *InvoiceHandler) EnableAutoBill(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.EnableAutoBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// ToggleRecurring handles flipping the recurring flag
func (h *InvoiceHandler) ToggleRecurring(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.ToggleRecurring(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, invoice)
}

// Delete handles deleting an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	deleted, err := h.invoiceService.DeleteInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Deleted(c, deleted)
}
