package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plutarco/order-intake/internal/aws"
	"github.com/plutarco/order-intake/internal/baserow"
	"github.com/plutarco/order-intake/internal/config"
	"github.com/plutarco/order-intake/internal/handlers"
	"github.com/plutarco/order-intake/internal/logger"
	"github.com/plutarco/order-intake/internal/middleware"
	"github.com/plutarco/order-intake/internal/notify"
	"github.com/plutarco/order-intake/internal/orders"
)

func setupRouter(cfg handlers.HandlerConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log, handlers.InternalErrorBody()),
	)

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)

	return r
}

// newOrderService builds the order pipeline from the loaded configuration.
func newOrderService(ctx context.Context, cfg *config.Config, httpClient *http.Client, log *zap.Logger) *orders.Service {
	store := baserow.NewClient(baserow.Config{
		APIURL:   cfg.Baserow.APIURL,
		APIToken: cfg.Baserow.APIToken,
		TableID:  cfg.Baserow.TableID,
	}, httpClient)
	if err := store.Validate(); err != nil {
		// not fatal: requests will answer with a configuration error
		log.Warn("order store credentials incomplete", zap.Error(err))
	}

	notifier := notify.New(cfg, httpClient, log.Named("notify"))

	var metrics orders.Metrics
	if cfg.Metrics.Namespace != "" {
		publisher, err := aws.NewCloudWatchMetrics(ctx, cfg.Metrics.Region, cfg.Metrics.Namespace, log.Named("metrics"))
		if err != nil {
			log.Warn("cloudwatch metrics disabled", zap.Error(err))
		} else {
			metrics = publisher
		}
	}

	return orders.NewService(store, notifier, metrics, log.Named("orders"))
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	svc := newOrderService(context.Background(), cfg, http.DefaultClient, log)
	r := setupRouter(handlers.HandlerConfig{Orders: svc, Path: cfg.App.Path}, log)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.App.RunLocal {
		addr := ":" + cfg.App.Port
		log.Info("running local server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			log.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
