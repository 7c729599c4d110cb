package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenek0529/reservation-system/internal/models"
)

func TestAggregateMonthly(t *testing.T) {
	rows := []models.CapacityRow{
		{AvailableDate: "2025-03-01", MaxCapacity: 10, CurrentCapacity: 4, ReservationSlotID: 1},
		{AvailableDate: "2025-03-01", MaxCapacity: 20, CurrentCapacity: 5, Pending: 1, ReservationSlotID: 2},
		{AvailableDate: "2025-03-02", MaxCapacity: 8, CurrentCapacity: 0, ReservationSlotID: 1},
	}

	metrics := AggregateMonthly(rows)

	require.Len(t, metrics, 2)
	assert.Equal(t, models.MonthlyMetric{Total: 30, Reserved: 9, Pending: 1, Available: 20}, metrics["2025-03-01"])
	assert.Equal(t, models.MonthlyMetric{Total: 8, Reserved: 0, Pending: 0, Available: 8}, metrics["2025-03-02"])
}

func TestAggregateMonthlyFloorsAvailable(t *testing.T) {
	metrics := AggregateMonthly([]models.CapacityRow{
		{AvailableDate: "2025-03-05", MaxCapacity: 10, CurrentCapacity: 12},
	})

	assert.Equal(t, 0, metrics["2025-03-05"].Available)
	assert.Equal(t, 12, metrics["2025-03-05"].Reserved)
}

func TestAggregateMonthlyEmpty(t *testing.T) {
	metrics := AggregateMonthly(nil)

	assert.NotNil(t, metrics)
	assert.Empty(t, metrics)
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		month string
		start string
		end   string
	}{
		{"2025-03-01", "2025-03-01", "2025-04-01"},
		{"2025-12-01", "2025-12-01", "2026-01-01"},
		{"2024-02-15", "2024-02-01", "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.month, func(t *testing.T) {
			start, end, err := MonthRange(tt.month)
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}

	_, _, err := MonthRange("March")
	assert.Error(t, err)
}

func TestMonthOf(t *testing.T) {
	month, err := MonthOf("2025-07-19")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", month)

	_, err = MonthOf("19/07/2025")
	assert.Error(t, err)
}

func TestUpcomingMonths(t *testing.T) {
	now := time.Date(2025, 11, 30, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"2025-11-01"}, UpcomingMonths(now, 0))
	assert.Equal(t, []string{"2025-11-01", "2025-12-01", "2026-01-01"}, UpcomingMonths(now, 2))
}

func TestDateStringUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	instant := time.Date(2025, 3, 31, 21, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-31", DateString(instant))
	assert.Equal(t, "2025-04-01", DateString(instant.In(loc)))
	assert.Equal(t, "2025-04-01", MonthStart(instant.In(loc)))
}
