// Package schedule holds the admin schedule state: monthly capacity metrics,
// daily list and timeline views, and a store that keeps them current for a
// selected date.
package schedule

import (
	"fmt"
	"time"

	"github.com/eugenek0529/reservation-system/internal/models"
)

const dateLayout = "2006-01-02"

// AggregateMonthly groups capacity rows by date. Available seats are floored at zero.
func AggregateMonthly(rows []models.CapacityRow) map[string]models.MonthlyMetric {
	metrics := make(map[string]models.MonthlyMetric)
	for _, row := range rows {
		m := metrics[row.AvailableDate]
		m.Total += row.MaxCapacity
		m.Reserved += row.CurrentCapacity
		m.Pending += row.Pending
		metrics[row.AvailableDate] = m
	}
	for date, m := range metrics {
		m.Available = max(0, m.Total-m.Reserved-m.Pending)
		metrics[date] = m
	}
	return metrics
}

// DateString formats t as YYYY-MM-DD in its own location
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// MonthStart returns the YYYY-MM-01 date of the month containing t, in t's location
func MonthStart(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Format(dateLayout)
}

// MonthOf returns the month start of a YYYY-MM-DD date
func MonthOf(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return MonthStart(t), nil
}

// MonthRange returns [first day of month, first day of next month) for a YYYY-MM-01 month
func MonthRange(month string) (start, end string, err error) {
	t, err := time.Parse(dateLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.Format(dateLayout), first.AddDate(0, 1, 0).Format(dateLayout), nil
}

// UpcomingMonths returns the start of the month of now followed by the next ahead months
func UpcomingMonths(now time.Time, ahead int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]string, 0, ahead+1)
	for i := 0; i <= ahead; i++ {
		months = append(months, first.AddDate(0, i, 0).Format(dateLayout))
	}
	return months
}
