package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/config"
	domainRepo "github.com/sangkips/invoice-desk/internal/domain/repository"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/response"
	"github.com/sangkips/invoice-desk/internal/presentation/http/handler"
	"github.com/sangkips/invoice-desk/internal/presentation/http/middleware"
	"github.com/sangkips/invoice-desk/pkg/apperror"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Invoice *handler.InvoiceHandler
	Health  *handler.HealthHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
	Metrics         *middleware.Metrics
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) (*gin.Engine, error) {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middleware
	router.Use(middleware.LoggerMiddleware())
	// Metrics wraps recovery so that panics are counted as 500s
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.NoRoute(func(c *gin.Context) {
		response.Error(c, apperror.ErrRouteNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		response.Error(c, apperror.ErrMethodNotAllow)
	})

	if err := operationalRoutes(h, deps).Register(router); err != nil {
		return nil, err
	}

	api := router.Group(deps.Cfg.App.APIPrefix)
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}

	invoices := api.Group("/invoices")
	if err := invoiceRoutes(h, deps).Register(invoices); err != nil {
		return nil, err
	}

	return router, nil
}

func operationalRoutes(h *Handlers, deps *Deps) RouteTable {
	table := RouteTable{
		{Method: http.MethodGet, Path: "/health", Handlers: []gin.HandlerFunc{h.Health.Health}},
	}
	if deps.Metrics != nil {
		table = append(table, Route{
			Method:   http.MethodGet,
			Path:     "/metrics",
			Handlers: []gin.HandlerFunc{gin.WrapH(deps.Metrics.Handler())},
		})
	}
	return table
}

func invoiceRoutes(h *Handlers, deps *Deps) RouteTable {
	create := []gin.HandlerFunc{h.Invoice.Create}
	if deps.IdempotencyRepo != nil {
		create = append([]gin.HandlerFunc{middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Idempotency.TTL,
		})}, create...)
	}

	return RouteTable{
		{Method: http.MethodGet, Path: "", Handlers: []gin.HandlerFunc{h.Invoice.List}},
		{Method: http.MethodPost, Path: "", Handlers: create},
		{Method: http.MethodGet, Path: "/:id", Handlers: []gin.HandlerFunc{h.Invoice.Get}},
		{Method: http.MethodPost, Path: "/:id/pay", Handlers: []gin.HandlerFunc{h.Invoice.Pay}},
		{Method: http.MethodPost, Path: "/:id/card", Handlers: []gin.HandlerFunc{h.Invoice.UpdateCard}},
		{Method: http.MethodPost, Path: "/:id/auto-bill", Handlers: []gin.HandlerFunc{h.Invoice.EnableAutoBill}},
		{Method: http.MethodPost, Path: "/:id/toggle-recurring", Handlers: []gin.HandlerFunc{h.Invoice.ToggleRecurring}},
		{Method: http.MethodDelete, Path: "/:id", Handlers: []gin.HandlerFunc{h.Invoice.Delete}},
	}
}
