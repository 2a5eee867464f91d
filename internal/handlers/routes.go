package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/cancellation"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/notifications"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/transactions"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/validation"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/vnpay"
)

// HandlerConfig groups dependencies for the HTTP surface.
type HandlerConfig struct {
	Cancellation *cancellation.Service
	Gateway      *vnpay.Client
	OrderStore   orders.Store
	TxStore      transactions.Store
	Notifier     notifications.Dispatcher
}

// RegisterRoutes registers the order-cancellation and payment routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/api/orders/:id/cancel", cancelOrderHandler(cfg))

	r.POST("/api/payment", createPaymentHandler(cfg, v))
	r.POST("/api/payment/query", queryTransactionHandler(cfg, v))
	r.GET("/return", returnHandler(cfg))
	r.POST("/ipn", ipnHandler(cfg))
}

// collectParams flattens query and form parameters into a single map,
// keeping the first value for repeated keys.
func collectParams(c *gin.Context) map[string]string {
	params := map[string]string{}
	for k, vs := range c.Request.URL.Query() {
		if len(vs) > 0 && vs[0] != "" {
			params[k] = vs[0]
		}
	}
	_ = c.Request.ParseForm()
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 && vs[0] != "" {
			params[k] = vs[0]
		}
	}
	return params
}
