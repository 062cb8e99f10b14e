package middleware

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/logger"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/response"
)

// RecoveryMiddleware turns a panic inside a handler into the generic
// server-fault envelope instead of dropping the connection
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		detail := fmt.Sprint(recovered)

		requestID, _ := c.Get("request_id")
		log := logger.WithComponent("recovery")
		log.Error().
			Interface("request_id", requestID).
			Str("path", c.Request.URL.Path).
			Str("panic", detail).
			Msg("recovered from panic")

		response.Fault(c, detail)
	})
}
