package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/plutarco/order-intake/internal/baserow"
	"github.com/plutarco/order-intake/internal/notify"
	"github.com/plutarco/order-intake/internal/validation"
)

// Service takes a parsed order through validation, the credential check,
// the store write and the optional notification, strictly in that order.
type Service struct {
	store    Store
	notifier notify.Notifier
	metrics  Metrics
	validate *validatorv10.Validate
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// NewService wires a Service. A nil notifier or metrics disables that step.
func NewService(store Store, notifier notify.Notifier, metrics Metrics, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		validate: validation.New(),
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Submit stores the order and returns the id assigned by the store. There is
// no deduplication: every call that reaches the store creates a new row.
func (s *Service) Submit(ctx context.Context, req validation.OrderRequest) (*Result, error) {
	if err := validation.Validate(s.validate, req); err != nil {
		return nil, err
	}

	if err := s.store.Validate(); err != nil {
		s.logger.Error("order store is not configured", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	row, err := s.store.CreateRow(ctx, Record{
		Email:       req.Email,
		ProductName: req.ProductName,
		Price:       req.Price,
	})
	if err != nil {
		s.logPersistFailure(err)
		s.metrics.Increment(ctx, MetricOrderPersistFailed)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamWrite, err)
	}

	s.metrics.Increment(ctx, MetricOrderSubmitted)
	s.logger.Info("order stored", zap.String("order_id", row.IDString()))

	s.notifyOrderCreated(ctx, notify.OrderCreatedEvent{
		OrderID:     row.IDString(),
		ProductName: req.ProductName,
		Price:       req.Price.String(),
		Email:       req.Email,
		At:          s.nowFunc(),
	})

	return &Result{OrderID: row.ID}, nil
}

func (s *Service) logPersistFailure(err error) {
	var apiErr *baserow.APIError
	if errors.As(err, &apiErr) {
		s.logger.Error("order store rejected row",
			zap.Int("status", apiErr.StatusCode),
			zap.String("response_body", apiErr.Body),
		)
		return
	}
	s.logger.Error("order store request failed", zap.Error(err))
}

// notifyOrderCreated never fails the submission: errors and panics from the
// notifier are logged and dropped.
func (s *Service) notifyOrderCreated(ctx context.Context, evt notify.OrderCreatedEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("order notification panicked",
				zap.String("order_id", evt.OrderID), zap.Any("panic", r))
			s.metrics.Increment(ctx, MetricNotificationFailed)
		}
	}()

	if err := s.notifier.NotifyOrderCreated(ctx, evt); err != nil {
		s.logger.Warn("order notification failed",
			zap.String("order_id", evt.OrderID), zap.Error(err))
		s.metrics.Increment(ctx, MetricNotificationFailed)
	}
}
