package schedule

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eugenek0529/reservation-system/internal/cache"
	"github.com/eugenek0529/reservation-system/internal/models"
)

// Fetcher reads schedule data from the backend
type Fetcher interface {
	GetDailySchedule(ctx context.Context, date string) ([]models.ScheduleSlot, error)
	GetMonthlyMetrics(ctx context.Context, month string) ([]models.CapacityRow, error)
}

// Cache is an optional JSON cache in front of the fetcher
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any) error
	InvalidateDate(ctx context.Context, date string) error
}

// CacheRecorder observes cache lookups
type CacheRecorder func(kind string, hit bool)

// Loader deduplicates concurrent fetches of the same key and notifies the
// stores built on it when a date changes.
type Loader struct {
	fetcher Fetcher
	cache   Cache
	record  CacheRecorder
	group   singleflight.Group

	mu     sync.Mutex
	stores map[*Store]struct{}
}

// NewLoader builds a loader. cache may be nil.
func NewLoader(fetcher Fetcher, c Cache) *Loader {
	return &Loader{
		fetcher: fetcher,
		cache:   c,
		stores:  make(map[*Store]struct{}),
	}
}

// OnCacheLookup installs a recorder for cache hits and misses
func (l *Loader) OnCacheLookup(record CacheRecorder) {
	l.record = record
}

func (l *Loader) observe(kind string, hit bool) {
	if l.record != nil {
		l.record(kind, hit)
	}
}

// loadTimeout bounds a shared fetch once it no longer follows any caller's context
const loadTimeout = 15 * time.Second

// do runs fn once per key for all concurrent callers. fn gets a context that
// survives the cancellation of whichever caller started it; each caller only
// stops waiting when its own ctx ends.
func (l *Loader) do(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := l.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(shared)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadSchedule returns the daily schedule of date
func (l *Loader) LoadSchedule(ctx context.Context, date string) ([]models.ScheduleSlot, error) {
	key := cache.DailyKey(date)
	v, err := l.do(ctx, key, func(ctx context.Context) (interface{}, error) {
		var slots []models.ScheduleSlot
		if l.lookup(ctx, "daily", key, &slots) {
			return slots, nil
		}
		slots, err := l.fetcher.GetDailySchedule(ctx, date)
		if err != nil {
			return nil, err
		}
		l.store(ctx, key, slots)
		return slots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ScheduleSlot), nil
}

// LoadMetrics returns the aggregated metrics of a YYYY-MM-01 month
func (l *Loader) LoadMetrics(ctx context.Context, month string) (map[string]models.MonthlyMetric, error) {
	key := cache.MonthlyKey(month)
	v, err := l.do(ctx, key, func(ctx context.Context) (interface{}, error) {
		var metrics map[string]models.MonthlyMetric
		if l.lookup(ctx, "monthly", key, &metrics) {
			return metrics, nil
		}
		rows, err := l.fetcher.GetMonthlyMetrics(ctx, month)
		if err != nil {
			return nil, err
		}
		metrics = AggregateMonthly(rows)
		l.store(ctx, key, metrics)
		return metrics, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]models.MonthlyMetric), nil
}

func (l *Loader) lookup(ctx context.Context, kind, key string, dst any) bool {
	if l.cache == nil {
		return false
	}
	err := l.cache.GetJSON(ctx, key, dst)
	if err == nil {
		l.observe(kind, true)
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("Schedule cache lookup failed", "key", key, "error", err)
	}
	l.observe(kind, false)
	return false
}

func (l *Loader) store(ctx context.Context, key string, value any) {
	if l.cache == nil {
		return
	}
	if err := l.cache.SetJSON(ctx, key, value); err != nil {
		slog.Warn("Failed to cache schedule data", "key", key, "error", err)
	}
}

// Invalidate drops cached data of date and refreshes every store showing it
func (l *Loader) Invalidate(ctx context.Context, date string) {
	if l.cache != nil {
		if err := l.cache.InvalidateDate(ctx, date); err != nil {
			slog.Warn("Failed to invalidate schedule cache", "date", date, "error", err)
		}
	}

	l.mu.Lock()
	affected := make([]*Store, 0, len(l.stores))
	for st := range l.stores {
		if st.shows(date) {
			affected = append(affected, st)
		}
	}
	l.mu.Unlock()

	for _, st := range affected {
		go func(st *Store) {
			refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := st.Refresh(refreshCtx); err != nil {
				slog.Warn("Schedule refresh after invalidation failed", "date", date, "error", err)
			}
		}(st)
	}
}

func (l *Loader) register(st *Store) {
	l.mu.Lock()
	l.stores[st] = struct{}{}
	l.mu.Unlock()
}

func (l *Loader) unregister(st *Store) {
	l.mu.Lock()
	delete(l.stores, st)
	l.mu.Unlock()
}

// Snapshot is the state of a store at one point in time
type Snapshot struct {
	Date     string                          `json:"date"`
	Month    string                          `json:"month"`
	Schedule []models.ScheduleSlot           `json:"schedule"`
	Metrics  map[string]models.MonthlyMetric `json:"metrics"`
	Error    string                          `json:"error,omitempty"`
}

const (
	keySchedule = "schedule"
	keyMetrics  = "metrics"
)

// Store holds the selected date with its schedule and month metrics. Every
// state key tracks the token of its latest fetch; responses carrying an older
// token are discarded.
type Store struct {
	loader *Loader

	mu     sync.Mutex
	snap   Snapshot
	seq    uint64
	tokens map[string]uint64
	subs   map[chan Snapshot]struct{}
	closed bool

	// claimed runs after a fetch took its tokens, before it loads anything
	claimed func(date string)
}

// NewStore builds a store registered with loader. Call Close when done.
func NewStore(loader *Loader) *Store {
	st := &Store{
		loader: loader,
		tokens: make(map[string]uint64),
		subs:   make(map[chan Snapshot]struct{}),
	}
	loader.register(st)
	return st
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Store) shows(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Date == "" {
		return false
	}
	if s.snap.Date == date {
		return true
	}
	month, err := MonthOf(date)
	return err == nil && month == s.snap.Month
}

func (s *Store) begin(key string) uint64 {
	s.seq++
	s.tokens[key] = s.seq
	return s.seq
}

func (s *Store) current(key string, token uint64) bool {
	return s.tokens[key] == token
}

// SelectDate makes date current and fetches its schedule, plus the month
// metrics when the month changed.
func (s *Store) SelectDate(ctx context.Context, date string) (Snapshot, error) {
	month, err := MonthOf(date)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	refreshMetrics := month != s.snap.Month || s.snap.Metrics == nil
	s.snap.Date = date
	s.snap.Month = month
	t := s.claim(refreshMetrics)
	s.mu.Unlock()

	return s.fetch(ctx, date, month, t)
}

// Refresh re-fetches the schedule and metrics of the selected date
func (s *Store) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	date, month := s.snap.Date, s.snap.Month
	if date == "" {
		snap := s.snap
		s.mu.Unlock()
		return snap, nil
	}
	t := s.claim(true)
	s.mu.Unlock()

	return s.fetch(ctx, date, month, t)
}

// fetchTokens are the state tokens claimed for one fetch. metrics is 0 when
// the fetch leaves the month metrics alone.
type fetchTokens struct {
	schedule uint64
	metrics  uint64
}

// claim takes new tokens in the same critical section that set or read the
// date being fetched. Callers hold s.mu.
func (s *Store) claim(withMetrics bool) fetchTokens {
	t := fetchTokens{schedule: s.begin(keySchedule)}
	if withMetrics {
		t.metrics = s.begin(keyMetrics)
	}
	return t
}

func (s *Store) fetch(ctx context.Context, date, month string, t fetchTokens) (Snapshot, error) {
	if s.claimed != nil {
		s.claimed(date)
	}
	withMetrics := t.metrics != 0
	scheduleToken, metricsToken := t.schedule, t.metrics

	var (
		wg          sync.WaitGroup
		slots       []models.ScheduleSlot
		metrics     map[string]models.MonthlyMetric
		scheduleErr error
		metricsErr  error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slots, scheduleErr = s.loader.LoadSchedule(ctx, date)
	}()
	if withMetrics {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics, metricsErr = s.loader.LoadMetrics(ctx, month)
		}()
	}
	wg.Wait()

	s.mu.Lock()
	changed := false
	if s.current(keySchedule, scheduleToken) {
		if scheduleErr != nil {
			s.snap.Schedule = []models.ScheduleSlot{}
			s.snap.Error = scheduleErr.Error()
		} else {
			s.snap.Schedule = slots
			s.snap.Error = ""
		}
		changed = true
	} else {
		slog.Debug("Discarding stale schedule response", "date", date)
	}
	if withMetrics {
		if s.current(keyMetrics, metricsToken) {
			if metricsErr != nil {
				s.snap.Metrics = map[string]models.MonthlyMetric{}
				if s.snap.Error == "" {
					s.snap.Error = metricsErr.Error()
				}
			} else {
				s.snap.Metrics = metrics
			}
			changed = true
		} else {
			slog.Debug("Discarding stale metrics response", "month", month)
		}
	}
	snap := s.snap
	if changed {
		s.publishLocked(snap)
	}
	s.mu.Unlock()

	if scheduleErr != nil {
		return snap, scheduleErr
	}
	return snap, metricsErr
}

// Subscribe returns a channel receiving every new snapshot. Slow readers only
// see the latest one. The returned func cancels the subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	if s.closed {
		close(ch)
	} else {
		s.subs[ch] = struct{}{}
	}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Store) publishLocked(snap Snapshot) {
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close unregisters the store and closes all subscriptions
func (s *Store) Close() {
	s.loader.unregister(s)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
}
