package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/models"
)

type recordingCache struct {
	dates []string
	err   error
}

func (c *recordingCache) InvalidateDate(ctx context.Context, date string) error {
	c.dates = append(c.dates, date)
	return c.err
}

func payload(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestProcessInvalidatesEventDate(t *testing.T) {
	cache := &recordingCache{}
	h := NewHandlers(cache, nil)
	ctx := context.Background()

	require.NoError(t, h.ProcessReservationCreated(ctx, payload(t, models.ReservationCreatedEvent{
		ReservationID: 1, Date: "2025-03-10", Guests: 2, Timestamp: time.Now(),
	})))
	require.NoError(t, h.ProcessStatusChanged(ctx, payload(t, models.ReservationStatusChangedEvent{
		ReservationID: 1, Status: models.StatusConfirmed, Date: "2025-03-11",
	})))
	require.NoError(t, h.ProcessMonthSeeded(ctx, payload(t, models.MonthSeededEvent{
		Month: "2025-04-01", Created: 30,
	})))

	assert.Equal(t, []string{"2025-03-10", "2025-03-11", "2025-04-01"}, cache.dates)
}

func TestProcessWithoutCache(t *testing.T) {
	h := NewHandlers(nil, nil)

	err := h.ProcessReservationCreated(context.Background(), payload(t, models.ReservationCreatedEvent{Date: "2025-03-10"}))

	assert.NoError(t, err)
}

func TestProcessSkipsEmptyDate(t *testing.T) {
	cache := &recordingCache{}
	h := NewHandlers(cache, nil)

	require.NoError(t, h.ProcessStatusChanged(context.Background(), payload(t, models.ReservationStatusChangedEvent{ReservationID: 4})))

	assert.Empty(t, cache.dates)
}

func TestProcessMalformedPayload(t *testing.T) {
	h := NewHandlers(&recordingCache{}, nil)

	err := h.ProcessMonthSeeded(context.Background(), []byte(`{"month": 5}`))

	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr))

	err = h.ProcessReservationCreated(context.Background(), []byte(`not json`))

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestProcessCacheFailure(t *testing.T) {
	h := NewHandlers(&recordingCache{err: errors.New("connection refused")}, nil)

	err := h.ProcessReservationCreated(context.Background(), payload(t, models.ReservationCreatedEvent{Date: "2025-03-10"}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-03-10")
}

func TestShouldAck(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{}
	missing := fmt.Errorf("failed to sync customer 7: %w", apperrors.NotFound("customer not found"))
	backend := apperrors.Wrap(errors.New("connection reset"), "failed to fetch customer")

	tests := []struct {
		name         string
		err          error
		redeliveries uint32
		want         bool
	}{
		{"malformed payload", fmt.Errorf("failed to unmarshal: %w", syntaxErr), 0, true},
		{"deleted customer", missing, 0, true},
		{"validation", apperrors.Validation("reservation slot is not active"), 0, true},
		{"provider first delivery", backend, 0, false},
		{"provider redelivered", backend, maxRedeliveries - 1, false},
		{"provider out of retries", backend, maxRedeliveries, true},
		{"cache failure", errors.New("redis: connection refused"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldAck(tt.err, tt.redeliveries))
		})
	}
}
