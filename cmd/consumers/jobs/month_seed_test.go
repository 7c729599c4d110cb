package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eugenek0529/reservation-system/internal/models"
)

type fakeSeeder struct {
	mu      sync.Mutex
	months  []string
	created map[string]int
	failing map[string]bool
}

func (f *fakeSeeder) EnsureMonthAvailability(ctx context.Context, month string) (*models.SeedMonthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.months = append(f.months, month)
	if f.failing[month] {
		return nil, errors.New("seed failed")
	}
	return &models.SeedMonthResponse{Created: f.created[month]}, nil
}

func (f *fakeSeeder) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.months...)
}

func fixedNow() time.Time {
	return time.Date(2025, time.November, 20, 8, 0, 0, 0, time.UTC)
}

func TestRunOnceSeedsUpcomingMonths(t *testing.T) {
	seeder := &fakeSeeder{created: map[string]int{"2025-11-01": 0, "2025-12-01": 31, "2026-01-01": 31}}
	job := NewMonthSeedJob(seeder, 2, time.Hour)
	job.now = fixedNow

	total := job.RunOnce(context.Background())

	assert.Equal(t, 62, total)
	assert.Equal(t, []string{"2025-11-01", "2025-12-01", "2026-01-01"}, seeder.seen())
}

func TestRunOnceSkipsFailingMonth(t *testing.T) {
	seeder := &fakeSeeder{
		created: map[string]int{"2025-11-01": 5, "2025-12-01": 31},
		failing: map[string]bool{"2025-11-01": true},
	}
	job := NewMonthSeedJob(seeder, 1, time.Hour)
	job.now = fixedNow

	assert.Equal(t, 31, job.RunOnce(context.Background()))
	assert.Len(t, seeder.seen(), 2)
}

func TestNewMonthSeedJobDefaults(t *testing.T) {
	job := NewMonthSeedJob(&fakeSeeder{}, -3, 0)

	assert.Equal(t, 0, job.monthsAhead)
	assert.Equal(t, time.Hour, job.interval)
}

func TestStartRunsImmediately(t *testing.T) {
	seeder := &fakeSeeder{}
	job := NewMonthSeedJob(seeder, 0, time.Hour)
	job.now = fixedNow

	job.Start(context.Background())
	defer job.Stop()

	assert.Eventually(t, func() bool {
		return len(seeder.seen()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"2025-11-01"}, seeder.seen())
}

func TestStopTwice(t *testing.T) {
	idle := NewMonthSeedJob(&fakeSeeder{}, 0, time.Hour)
	assert.NotPanics(t, func() {
		idle.Stop()
		idle.Stop()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	job := NewMonthSeedJob(&fakeSeeder{}, 0, time.Hour)
	job.now = fixedNow
	job.Start(ctx)
	assert.NotPanics(t, func() {
		job.Stop()
		job.Stop()
	})
}
