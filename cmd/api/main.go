package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mahib2121/BoiGhor-Server/internal/auth"
	"github.com/mahib2121/BoiGhor-Server/internal/aws"
	"github.com/mahib2121/BoiGhor-Server/internal/checkout"
	"github.com/mahib2121/BoiGhor-Server/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig, corsOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server UP")
	})

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	gateway := checkout.NewStripeGateway(
		os.Getenv("STRIPE_SECRET_KEY"),
		envOr("CHECKOUT_SUCCESS_URL", "http://localhost:5173/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		envOr("CHECKOUT_CANCEL_URL", "http://localhost:5173/cart"),
	)

	cfg := handlers.HandlerConfig{
		DynamoDBClient: clients.DynamoDB,
		SQSClient:      clients.SQS,
		Verifier:       auth.NewRESTVerifier(os.Getenv("AUTH_VERIFY_URL")),
		Gateway:        gateway,
		BooksTable:     os.Getenv("BOOKS_TABLE"),
		OrdersTable:    os.Getenv("ORDERS_TABLE"),
		PaymentsTable:  os.Getenv("PAYMENTS_TABLE"),
		UsersTable:     os.Getenv("USERS_TABLE"),
		QueueURL:       os.Getenv("PAYMENTS_QUEUE_URL"),
		Currency:       envOr("CHECKOUT_CURRENCY", "usd"),
		Logger:         logger,
	}

	r := setupRouter(cfg, envOr("CORS_ORIGIN", "http://localhost:5173"))

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":" + envOr("PORT", "8080")
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}
