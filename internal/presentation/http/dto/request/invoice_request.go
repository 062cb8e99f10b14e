package request

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sangkips/invoice-desk/pkg/apperror"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// CreateInvoiceRequest represents an invoice creation request. Every field is
// optional; missing values are defaulted by the service.
type CreateInvoiceRequest struct {
	CompCode  *string  `json:"comp_code"`
	Amount    *float64 `json:"amount"`
	Recurring *bool    `json:"recurring"`
}

// UpdateCardRequest represents a card update request
type UpdateCardRequest struct {
	CardLast4 string `json:"card_last4"`
}

// Validator checks raw request bodies against the invoice JSON schemas
type Validator struct {
	createInvoice *gojsonschema.Schema
	updateCard    *gojsonschema.Schema
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	createInvoice, err := loadSchema("schemas/create_invoice.schema.json")
	if err != nil {
		return nil, err
	}
	updateCard, err := loadSchema("schemas/update_card.schema.json")
	if err != nil {
		return nil, err
	}
	return &Validator{createInvoice: createInvoice, updateCard: updateCard}, nil
}

// MustNewValidator is like NewValidator but panics on a broken schema
func MustNewValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

func loadSchema(path string) (*gojsonschema.Schema, error) {
	raw, err := schemaFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", path, err)
	}
	return schema, nil
}

// DecodeCreateInvoice validates and decodes a create request body. An empty
// body is treated as an empty object.
func (v *Validator) DecodeCreateInvoice(body []byte) (*CreateInvoiceRequest, error) {
	var req CreateInvoiceRequest
	if err := decode(v.createInvoice, body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeUpdateCard validates and decodes a card update body
func (v *Validator) DecodeUpdateCard(body []byte) (*UpdateCardRequest, error) {
	var req UpdateCardRequest
	if err := decode(v.updateCard, body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func decode(schema *gojsonschema.Schema, body []byte, dst any) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		return apperror.NewBadRequestError("Invalid request body")
	}

	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperror.NewBadRequestError("Invalid request body")
	}
	if !res.Valid() {
		fields := make([]apperror.FieldError, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			fields = append(fields, apperror.FieldError{
				Field:   fieldName(e),
				Message: e.Description(),
			})
		}
		return apperror.NewValidationError(fields)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperror.NewBadRequestError("Invalid request body")
	}
	return nil
}

const schemaRoot = "(root)"

// fieldName strips gojsonschema's "(root)." prefix
func fieldName(e gojsonschema.ResultError) string {
	field := e.Field()
	if p, ok := e.Details()["property"]; ok && field == schemaRoot {
		return fmt.Sprint(p)
	}
	return strings.TrimPrefix(field, schemaRoot+".")
}
