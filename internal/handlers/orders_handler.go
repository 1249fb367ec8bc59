package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plutarco/order-intake/internal/logger"
	"github.com/plutarco/order-intake/internal/middleware"
	"github.com/plutarco/order-intake/internal/orders"
	"github.com/plutarco/order-intake/internal/validation"
)

// Response messages
const (
	msgMethodNotAllowed = "Method not allowed"
	msgMissingFields    = "Missing required fields"
	msgConfiguration    = "Server configuration error"
	msgFailedToProcess  = "Failed to process order"
	msgSubmitted        = "Order submitted successfully"
)

// OrderSubmitter is implemented by *orders.Service.
type OrderSubmitter interface {
	Submit(ctx context.Context, req validation.OrderRequest) (*orders.Result, error)
}

// HandlerConfig groups dependencies for the orders handler.
type HandlerConfig struct {
	Orders OrderSubmitter
	Path   string
}

type submitResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	OrderID json.RawMessage `json:"orderId,omitempty"`
}

// InternalErrorBody is the body sent for any unexpected failure, including
// recovered panics.
func InternalErrorBody() gin.H {
	return gin.H{"error": msgFailedToProcess}
}

// RegisterOrdersRoutes mounts the order intake handler on cfg.Path for every
// method, and on any path no other route claims, so the function works under
// whatever resource path the gateway forwards. OPTIONS is answered by the
// CORS middleware; anything other than POST gets a 405.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	cors := middleware.CORS(middleware.PermissiveCORSConfig())
	submit := submitOrder(cfg.Orders)

	r.Any(cfg.Path, cors, submit)
	r.NoRoute(cors, submit)

	// methods outside gin's Any set (e.g. PROPFIND) would otherwise 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(cors, methodNotAllowed)
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": msgMethodNotAllowed})
}

func submitOrder(svc OrderSubmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			methodNotAllowed(c)
			return
		}

		var req validation.OrderRequest
		if err := validation.Bind(c, &req); err != nil {
			respondError(c, err)
			return
		}

		res, err := svc.Submit(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, submitResponse{
			Success: true,
			Message: msgSubmitted,
			OrderID: res.OrderID,
		})
	}
}

// respondError maps the error taxonomy to a status and a fixed message.
// Upstream details never reach the caller.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	log := logger.FromGin(c)

	switch {
	case errors.Is(err, validation.ErrClientInput):
		log.Info("rejected order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
	case errors.Is(err, orders.ErrConfiguration):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgConfiguration})
	default:
		log.Error("failed to process order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, InternalErrorBody())
	}
}
