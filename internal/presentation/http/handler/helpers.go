package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/invoice-desk/internal/presentation/http/dto/response"
)

// invoiceID parses the :id path parameter. On failure it writes a 400 and
// returns false.
func invoiceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid invoice ID")
		return 0, false
	}
	return id, true
}
