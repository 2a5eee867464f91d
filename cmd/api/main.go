package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"github.com/aims-ecom/go-vnpay-orderflow/internal/awsx"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/cancellation"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/handlers"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/metrics"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/notifications"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/orders"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/payment"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/transactions"
	"github.com/aims-ecom/go-vnpay-orderflow/internal/vnpay"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	ctx := context.Background()

	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	gwCfg, err := vnpay.LoadConfig(os.Getenv("VNPAY_CONFIG_DIR"))
	if err != nil {
		log.Fatalf("failed to load vnpay config: %v", err)
	}
	gateway := vnpay.NewClient(gwCfg)

	orderStore := orders.NewDynamoStore(clients.DynamoDB, os.Getenv("ORDERS_TABLE"))
	txStore := transactions.NewDynamoStore(clients.DynamoDB, os.Getenv("TRANSACTIONS_TABLE"))
	notifier := notifications.NewSQSDispatcher(clients.SQS, os.Getenv("NOTIFICATIONS_QUEUE_URL"))
	recorder := metrics.NewCloudWatchRecorder(clients.CloudWatch, "AIMS/OrderFlow")

	selector, err := payment.NewSelector("VNPay",
		payment.NewVNPayStrategy(gateway, txStore, payment.LegacyThresholdRule(gwCfg.LegacyOrderThreshold)),
		payment.NewCreditCardStrategy(txStore, payment.AboveThresholdRule(gwCfg.LegacyOrderThreshold)),
	)
	if err != nil {
		log.Fatalf("failed to build payment selector: %v", err)
	}

	cancelSvc := cancellation.NewService(orderStore, txStore, selector, notifier, recorder)

	r := setupRouter(handlers.HandlerConfig{
		Cancellation: cancelSvc,
		Gateway:      gateway,
		OrderStore:   orderStore,
		TxStore:      txStore,
		Notifier:     notifier,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
