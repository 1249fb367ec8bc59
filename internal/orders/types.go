package orders

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/plutarco/order-intake/internal/baserow"
	"github.com/plutarco/order-intake/internal/validation"
)

// Error taxonomy for order submission.
var (
	ErrConfiguration = errors.New("server configuration error")
	ErrUpstreamWrite = errors.New("order store write failed")
)

// Metric names published per submission.
const (
	MetricOrderSubmitted     = "OrderSubmitted"
	MetricOrderPersistFailed = "OrderPersistFailed"
	MetricNotificationFailed = "NotificationFailed"
)

// Record is the row written to the orders table. JSON keys are the table's
// column names.
type Record struct {
	Email       string           `json:"Email client"`
	ProductName string           `json:"Product name"`
	Price       validation.Price `json:"Price"`
}

// Result is what a successful submission returns to the caller.
type Result struct {
	OrderID json.RawMessage
}

// Store persists order rows. It is satisfied by *baserow.Client.
type Store interface {
	Validate() error
	CreateRow(ctx context.Context, fields interface{}) (*baserow.Row, error)
}

// Metrics counts submission outcomes. Implementations must not block on failure.
type Metrics interface {
	Increment(ctx context.Context, name string)
}

type nopMetrics struct{}

func (nopMetrics) Increment(context.Context, string) {}
