package request

import (
	"net/http"
	"testing"

	"github.com/sangkips/invoice-desk/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCreateInvoice(t *testing.T) {
	v := MustNewValidator()

	req, err := v.DecodeCreateInvoice([]byte(`{"comp_code":"ACME","amount":12.5,"recurring":true}`))
	require.NoError(t, err)
	require.NotNil(t, req.CompCode)
	assert.Equal(t, "ACME", *req.CompCode)
	assert.Equal(t, 12.5, *req.Amount)
	assert.True(t, *req.Recurring)

	empty, err := v.DecodeCreateInvoice(nil)
	require.NoError(t, err)
	assert.Nil(t, empty.CompCode)
	assert.Nil(t, empty.Amount)
	assert.Nil(t, empty.Recurring)

	nulls, err := v.DecodeCreateInvoice([]byte(`{"comp_code":null,"amount":null}`))
	require.NoError(t, err)
	assert.Nil(t, nulls.CompCode)
}

func TestDecodeCreateInvoice_Invalid(t *testing.T) {
	v := MustNewValidator()

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"negative amount", `{"amount":-1}`, "amount"},
		{"amount as string", `{"amount":"ten"}`, "amount"},
		{"comp code too long", `{"comp_code":"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456"}`, "comp_code"},
		{"recurring not bool", `{"recurring":"yes"}`, "recurring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.DecodeCreateInvoice([]byte(tt.body))
			appErr := apperror.GetAppError(err)
			require.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			assert.Equal(t, "Validation failed", appErr.Message)
			require.NotEmpty(t, appErr.Errors)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}
}

func TestDecodeMalformedBody(t *testing.T) {
	v := MustNewValidator()

	_, err := v.DecodeCreateInvoice([]byte(`{"amount":`))
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Invalid request body", appErr.Message)

	_, err = v.DecodeCreateInvoice([]byte(`[1,2]`))
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestDecodeUpdateCard(t *testing.T) {
	v := MustNewValidator()

	req, err := v.DecodeUpdateCard([]byte(`{"card_last4":"1234"}`))
	require.NoError(t, err)
	assert.Equal(t, "1234", req.CardLast4)

	blank, err := v.DecodeUpdateCard([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, blank.CardLast4)

	for _, body := range []string{`{"card_last4":"12345"}`, `{"card_last4":"12a4"}`, `{"card_last4":1234}`} {
		_, err := v.DecodeUpdateCard([]byte(body))
		appErr := apperror.GetAppError(err)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code, body)
		if assert.NotEmpty(t, appErr.Errors, body) {
			assert.Equal(t, "card_last4", appErr.Errors[0].Field, body)
		}
	}
}
