package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/domain/entity"
	"github.com/sangkips/invoice-desk/pkg/apperror"
)

// APIResponse is the uniform envelope returned by every invoice operation
type APIResponse struct {
	Success bool                  `json:"success"`
	Invoice *entity.Invoice       `json:"invoice,omitempty"`
	Deleted *entity.Invoice       `json:"deleted,omitempty"`
	Error   string                `json:"error,omitempty"`
	Message string                `json:"message,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

// InvoiceList is the body of GET /invoices
type InvoiceList struct {
	Invoices []entity.Invoice `json:"invoices"`
}

// List sends the full invoice collection
func List(c *gin.Context, invoices []entity.Invoice) {
	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	c.JSON(http.StatusOK, InvoiceList{Invoices: invoices})
}

// Invoice sends a success response carrying the affected invoice
func Invoice(c *gin.Context, statusCode int, invoice *entity.Invoice) {
	c.JSON(statusCode, APIResponse{Success: true, Invoice: invoice})
}

// OK sends a 200 response carrying the affected invoice
func OK(c *gin.Context, invoice *entity.Invoice) {
	Invoice(c, http.StatusOK, invoice)
}

// Created sends a 201 Created response
func Created(c *gin.Context, invoice *entity.Invoice) {
	Invoice(c, http.StatusCreated, invoice)
}

// Deleted sends a success response carrying the removed invoice
func Deleted(c *gin.Context, invoice *entity.Invoice) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Deleted: invoice})
}

// Error sends an error response with the status carried by err
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	body := APIResponse{
		Success: false,
		Error:   appErr.Message,
		Errors:  appErr.Errors,
	}
	if appErr.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
		if appErr.Err != nil {
			body.Message = appErr.Err.Error()
		}
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, APIResponse{
		Success: false,
		Error:   message,
	})
}

// Fault sends the generic server-fault envelope including the fault text
func Fault(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, APIResponse{
		Success: false,
		Error:   apperror.ErrInternal.Message,
		Message: detail,
	})
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}
