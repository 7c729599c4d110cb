package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/stan.go"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/models"
)

const handlerTimeout = 10 * time.Second

// DateInvalidator drops cached schedule data. *cache.ScheduleCache implements it.
type DateInvalidator interface {
	InvalidateDate(ctx context.Context, date string) error
}

// Handlers keeps the schedule cache consistent with reservation events
type Handlers struct {
	cache   DateInvalidator
	metrics *metrics.Metrics
}

// NewHandlers builds the handlers. cache may be nil when Redis is disabled.
func NewHandlers(cache DateInvalidator, m *metrics.Metrics) *Handlers {
	return &Handlers{cache: cache, metrics: m}
}

func (h *Handlers) invalidate(ctx context.Context, date string) error {
	if h.cache == nil || date == "" {
		return nil
	}
	if err := h.cache.InvalidateDate(ctx, date); err != nil {
		return fmt.Errorf("failed to invalidate schedule cache for %s: %w", date, err)
	}
	return nil
}

// ProcessReservationCreated invalidates the schedule of the booked date
func (h *Handlers) ProcessReservationCreated(ctx context.Context, data []byte) error {
	var event models.ReservationCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal reservation created event: %w", err)
	}

	slog.Info("Processing reservation created event",
		"reservation_id", event.ReservationID,
		"date", event.Date,
		"guests", event.Guests)

	return h.invalidate(ctx, event.Date)
}

// ProcessStatusChanged invalidates the schedule of the reservation's date
func (h *Handlers) ProcessStatusChanged(ctx context.Context, data []byte) error {
	var event models.ReservationStatusChangedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal status changed event: %w", err)
	}

	slog.Info("Processing reservation status event",
		"reservation_id", event.ReservationID,
		"status", event.Status,
		"date", event.Date)

	return h.invalidate(ctx, event.Date)
}

// ProcessMonthSeeded invalidates the metrics of the seeded month
func (h *Handlers) ProcessMonthSeeded(ctx context.Context, data []byte) error {
	var event models.MonthSeededEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal month seeded event: %w", err)
	}

	slog.Info("Processing month seeded event", "month", event.Month, "created", event.Created)

	return h.invalidate(ctx, event.Month)
}

// maxRedeliveries bounds how often a provider failure is retried before the
// event is dropped
const maxRedeliveries = 5

// Ack wraps a processing function into a stan handler. Provider failures are
// left for redelivery until maxRedeliveries; every other failure is permanent
// and the event is acknowledged and dropped.
func (h *Handlers) Ack(subject string, process func(context.Context, []byte) error) stan.MsgHandler {
	return func(m *stan.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		err := process(ctx, m.Data)
		h.metrics.EventConsumed(subject, err == nil)
		if err != nil && !shouldAck(err, m.RedeliveryCount) {
			slog.Error("Failed to process event, waiting for redelivery",
				"subject", subject,
				"redelivery_count", m.RedeliveryCount,
				"error", err)
			return
		}
		if err != nil {
			slog.Error("Dropping event", "subject", subject, "redelivery_count", m.RedeliveryCount, "error", err)
		}

		if err := m.Ack(); err != nil {
			slog.Error("Failed to ack event", "subject", subject, "error", err)
		}
	}
}

// shouldAck reports whether a failed event is settled anyway
func shouldAck(err error, redeliveries uint32) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return true
	}
	if apperrors.KindOf(err) != apperrors.KindProvider {
		return true
	}
	return redeliveries >= maxRedeliveries
}
