package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/notification"
	"github.com/lerp/backend/internal/domain/shared"
)

// StockAlertHandler turns product stock alert events into persisted
// back-office notifications
type StockAlertHandler struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(repo notification.Repository, logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{
		repo:   repo,
		logger: logger,
	}
}

// EventTypes implements shared.EventHandler
func (h *StockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductStockAlert}
}

// Handle implements shared.EventHandler
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*catalog.ProductStockAlertEvent)
	if !ok {
		return nil
	}

	message := fmt.Sprintf("Stock alert: %s (%s) is down to %d units", alert.Name, alert.Code, alert.Quantity)
	n, err := notification.New(message, "stock")
	if err != nil {
		return err
	}
	if err := h.repo.Save(ctx, n); err != nil {
		h.logger.Error("failed to persist stock alert notification",
			zap.String("product_code", alert.Code),
			zap.Error(err))
		return err
	}

	h.logger.Info("stock alert notification created",
		zap.String("product_code", alert.Code),
		zap.Int("quantity", alert.Quantity))
	return nil
}
