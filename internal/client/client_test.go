package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/application/service"
	"github.com/sangkips/invoice-desk/internal/client"
	"github.com/sangkips/invoice-desk/internal/config"
	"github.com/sangkips/invoice-desk/internal/infrastructure/database"
	"github.com/sangkips/invoice-desk/internal/infrastructure/repository"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/request"
	"github.com/sangkips/invoice-desk/internal/presentation/http/handler"
	"github.com/sangkips/invoice-desk/internal/presentation/http/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewInvoiceRepository()
	require.NoError(t, database.SeedDefaultData(context.Background(), repo))
	svc := service.NewInvoiceService(repo)

	router, err := routes.Setup(&routes.Handlers{
		Invoice: handler.NewInvoiceHandler(svc, request.MustNewValidator()),
		Health:  handler.NewHealthHandler("client-test", svc),
	}, &routes.Deps{
		Cfg: &config.Config{App: config.AppConfig{APIPrefix: "/api"}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/api/", client.WithHTTPClient(srv.Client()))
}

func TestClientRoundTrip(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ACME", list[0].CompCode)

	created, err := c.Create(ctx, client.CreateInvoiceRequest{CompCode: "BETA", Amount: 42, Recurring: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.True(t, created.Recurring)

	paid, err := c.Pay(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.NotNil(t, paid.PaidAt)

	carded, err := c.UpdateCard(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "0000", carded.CardLast4)

	auto, err := c.EnableAutoBill(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, auto.AutoBill)

	toggled, err := c.ToggleRecurring(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Recurring)

	deleted, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "BETA", deleted.CompCode)

	list, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestClientErrors(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	_, err := c.Pay(ctx, 404)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.NotFound())
	assert.Equal(t, "Invoice not found", apiErr.Message)

	_, err = c.UpdateCard(ctx, 1, "12345")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Validation failed", apiErr.Message)
}

func TestClientEmptyList(t *testing.T) {
	c := newServer(t)
	ctx := context.Background()

	_, err := c.Delete(ctx, 1)
	require.NoError(t, err)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
