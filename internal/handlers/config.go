package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/mahib2121/BoiGhor-Server/internal/auth"
	"github.com/mahib2121/BoiGhor-Server/internal/aws"
	"github.com/mahib2121/BoiGhor-Server/internal/books"
	"github.com/mahib2121/BoiGhor-Server/internal/checkout"
	"github.com/mahib2121/BoiGhor-Server/internal/orders"
	"github.com/mahib2121/BoiGhor-Server/internal/payments"
	"github.com/mahib2121/BoiGhor-Server/internal/users"
	"github.com/mahib2121/BoiGhor-Server/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	SQSClient      aws.SQSAPI
	Verifier       auth.Verifier
	Gateway        checkout.Gateway

	BooksTable    string
	OrdersTable   string
	PaymentsTable string
	UsersTable    string
	QueueURL      string
	Currency      string

	Logger *slog.Logger
}

// deps are the wired collaborators shared by the route groups.
type deps struct {
	books      *books.Store
	orders     *orders.Store
	payments   *payments.Store
	users      *users.Store
	guard      *auth.Guard
	reconciler *checkout.Reconciler
	validate   *validatorv10.Validate
	logger     *slog.Logger
}

// RegisterRoutes wires the stores and registers all API routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	paymentsStore := payments.NewStore(cfg.DynamoDBClient, cfg.PaymentsTable, ordersStore)
	usersStore := users.NewStore(cfg.DynamoDBClient, cfg.UsersTable)
	booksStore := books.NewStore(cfg.DynamoDBClient, cfg.BooksTable)

	var events checkout.EventPublisher
	if cfg.SQSClient != nil && cfg.QueueURL != "" {
		events = aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	}

	d := &deps{
		books:      booksStore,
		orders:     ordersStore,
		payments:   paymentsStore,
		users:      usersStore,
		guard:      auth.NewGuard(usersStore),
		reconciler: checkout.NewReconciler(cfg.Gateway, paymentsStore, events, cfg.Currency, logger),
		validate:   validation.New(),
		logger:     logger,
	}

	authed := auth.RequireAuth(cfg.Verifier)

	registerBookRoutes(r, d, authed)
	registerOrderRoutes(r, d, authed)
	registerPaymentRoutes(r, d)
	registerUserRoutes(r, d, authed)
}
