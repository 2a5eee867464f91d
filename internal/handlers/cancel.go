package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/cancellation"
)

// statusForCode maps workflow result codes to HTTP statuses.
var statusForCode = map[string]int{
	cancellation.CodeSuccess:            http.StatusOK,
	cancellation.CodeOrderNotFound:      http.StatusNotFound,
	cancellation.CodeInvalidStatus:      http.StatusConflict,
	cancellation.CodeTransactionInvalid: http.StatusBadRequest,
	cancellation.CodeRefundFailed:       http.StatusBadGateway,
	cancellation.CodeInternalError:      http.StatusInternalServerError,
}

func cancelOrderHandler(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_order_id"})
			return
		}

		result := cfg.Cancellation.Cancel(c.Request.Context(), orderID, c.ClientIP())

		status, ok := statusForCode[result.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, result)
	}
}
