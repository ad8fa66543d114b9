package rental

import (
	"context"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler records rental lifecycle events to the application
// log. It subscribes to every document state transition so operators can
// follow a quotation from draft through contract closure without querying
// the audit tables.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a handler that logs rental lifecycle events
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// Handle logs the event with its aggregate identity
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("rental lifecycle event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns the lifecycle events this handler subscribes to
func (h *ActivityLogHandler) EventTypes() []string {
	return []string{
		rental.EventTypeQuotationCreated,
		rental.EventTypeQuotationSent,
		rental.EventTypeQuotationConfirmed,
		rental.EventTypeQuotationCancelled,
		rental.EventTypeOrderCreated,
		rental.EventTypeRentalStarted,
		rental.EventTypeOrderHiredOff,
		rental.EventTypeOrderCancelled,
		rental.EventTypeContractCreated,
		rental.EventTypeContractActivated,
		rental.EventTypeContractClosed,
	}
}

// Ensure ActivityLogHandler implements EventHandler
var _ shared.EventHandler = (*ActivityLogHandler)(nil)
