package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/schedule"
)

// MonthSeeder materializes the availability of a month. *service.AvailabilityService implements it.
type MonthSeeder interface {
	EnsureMonthAvailability(ctx context.Context, month string) (*models.SeedMonthResponse, error)
}

// MonthSeedJob keeps the current month and the next few months seeded
type MonthSeedJob struct {
	seeder      MonthSeeder
	monthsAhead int
	interval    time.Duration
	now         func() time.Time
	ticker      *time.Ticker
	done        chan bool
	stopOnce    sync.Once
}

func NewMonthSeedJob(seeder MonthSeeder, monthsAhead int, interval time.Duration) *MonthSeedJob {
	if monthsAhead < 0 {
		monthsAhead = 0
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &MonthSeedJob{
		seeder:      seeder,
		monthsAhead: monthsAhead,
		interval:    interval,
		now:         time.Now,
		done:        make(chan bool),
	}
}

// Start runs the job immediately and then on every interval
func (j *MonthSeedJob) Start(ctx context.Context) {
	slog.Info("Starting month seed job", "interval", j.interval, "months_ahead", j.monthsAhead)

	j.ticker = time.NewTicker(j.interval)

	go j.RunOnce(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.RunOnce(ctx)
			case <-j.done:
				slog.Info("Month seed job stopped")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop is safe to call more than once, and before Start
func (j *MonthSeedJob) Stop() {
	j.stopOnce.Do(func() {
		if j.ticker != nil {
			j.ticker.Stop()
		}
		close(j.done)
	})
}

// RunOnce seeds every upcoming month and returns the number of rows created.
// A failing month is logged and does not stop the others.
func (j *MonthSeedJob) RunOnce(ctx context.Context) int {
	total := 0
	for _, month := range schedule.UpcomingMonths(j.now(), j.monthsAhead) {
		resp, err := j.seeder.EnsureMonthAvailability(ctx, month)
		if err != nil {
			slog.Error("Failed to seed month", "month", month, "error", err)
			continue
		}
		total += resp.Created
	}

	if total > 0 {
		slog.Info("Month seed job created availability", "created", total)
	} else {
		slog.Debug("Month seed job found nothing to create")
	}
	return total
}
