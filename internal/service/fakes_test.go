package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/eugenek0529/reservation-system/internal/models"
)

type publishedEvent struct {
	subject string
	data    interface{}
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, data: data})
	return p.err
}

func (p *fakePublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.subject)
	}
	return out
}

type fakeInvalidator struct {
	dates []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, date string) {
	f.dates = append(f.dates, date)
}

type fakeAvailabilityStore struct {
	seeded        map[string]bool
	daysPerMonth  int
	capacityRows  []models.CapacityRow
	capacityRange [2]string
	slots         map[int64]*models.SlotAvailabilityRow
	scheduleRows  []models.ScheduleSlotRow
	err           error
	calls         int
}

func newFakeAvailabilityStore() *fakeAvailabilityStore {
	return &fakeAvailabilityStore{
		seeded:       make(map[string]bool),
		daysPerMonth: 31,
		slots:        make(map[int64]*models.SlotAvailabilityRow),
	}
}

func (f *fakeAvailabilityStore) MonthExists(ctx context.Context, month string) (bool, error) {
	f.calls++
	return f.seeded[month], f.err
}

func (f *fakeAvailabilityStore) SeedMonth(ctx context.Context, month string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if f.seeded[month] {
		return 0, nil
	}
	f.seeded[month] = true
	return f.daysPerMonth, nil
}

func (f *fakeAvailabilityStore) MonthlyCapacity(ctx context.Context, start, end string) ([]models.CapacityRow, error) {
	f.calls++
	f.capacityRange = [2]string{start, end}
	return f.capacityRows, f.err
}

func (f *fakeAvailabilityStore) DailySchedule(ctx context.Context, date string) ([]models.ScheduleSlotRow, error) {
	f.calls++
	return f.scheduleRows, f.err
}

func (f *fakeAvailabilityStore) DailyReservations(ctx context.Context, date string) ([]models.DailyReservationRow, error) {
	f.calls++
	return nil, f.err
}

func (f *fakeAvailabilityStore) SlotsForDate(ctx context.Context, date string) ([]models.SlotAvailabilityRow, error) {
	f.calls++
	var rows []models.SlotAvailabilityRow
	for _, s := range f.slots {
		if s.AvailableDate == date {
			rows = append(rows, *s)
		}
	}
	return rows, f.err
}

func (f *fakeAvailabilityStore) GetAvailability(ctx context.Context, id int64) (*models.SlotAvailabilityRow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.slots[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

type fakeReservationStore struct {
	created  []models.Reservation
	nextID   int64
	statuses map[int64]string
	dates    map[int64]string
	err      error
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{nextID: 100, statuses: make(map[int64]string), dates: make(map[int64]string)}
}

func (f *fakeReservationStore) Create(ctx context.Context, res *models.Reservation) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	f.created = append(f.created, *res)
	return nil
}

func (f *fakeReservationStore) UpdateStatus(ctx context.Context, id int64, status string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	date, ok := f.dates[id]
	if !ok {
		return "", nil
	}
	f.statuses[id] = status
	return date, nil
}

type fakeCustomerStore struct {
	customers []models.Customer
	profiles  []models.UserProfile
	nextID    int64
	creates   int
	err       error
}

func (f *fakeCustomerStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return f.customers, f.err
}

func (f *fakeCustomerStore) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	return f.profiles, f.err
}

func (f *fakeCustomerStore) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.customers {
		if f.customers[i].ID == id {
			c := f.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerStore) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.customers {
		if e := f.customers[i].Email; e != nil && strings.EqualFold(*e, email) {
			c := f.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerStore) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.customers {
		if p := f.customers[i].Phone; p != nil && *p == phone {
			c := f.customers[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerStore) Create(ctx context.Context, c *models.Customer) error {
	if f.err != nil {
		return f.err
	}
	f.creates++
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	f.customers = append(f.customers, *c)
	return nil
}

func (f *fakeCustomerStore) Update(ctx context.Context, id int64, req models.UpdateCustomerRequest) (*models.Customer, error) {
	for i := range f.customers {
		if f.customers[i].ID != id {
			continue
		}
		if req.Name != nil {
			f.customers[i].Name = *req.Name
		}
		if req.Email != nil {
			f.customers[i].Email = req.Email
		}
		if req.Phone != nil {
			f.customers[i].Phone = req.Phone
		}
		c := f.customers[i]
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCustomerStore) Delete(ctx context.Context, id int64) (bool, error) {
	for i := range f.customers {
		if f.customers[i].ID == id {
			f.customers = append(f.customers[:i], f.customers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeReservationTypeStore struct {
	rows         []models.ReservationTypeRow
	params       []models.ScheduleParams
	createCalls  int
	updateResult *models.ReservationTypeRow
	err          error
}

func (f *fakeReservationTypeStore) Create(ctx context.Context, row *models.ReservationTypeRow) error {
	f.createCalls++
	if f.err != nil {
		return f.err
	}
	row.ID = int64(len(f.rows) + 1)
	row.CreatedAt = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeReservationTypeStore) CreateWithSchedule(ctx context.Context, p models.ScheduleParams) (int64, error) {
	f.createCalls++
	if f.err != nil {
		return 0, f.err
	}
	f.params = append(f.params, p)
	return 42, nil
}

func (f *fakeReservationTypeStore) List(ctx context.Context) ([]models.ReservationTypeRow, error) {
	return f.rows, f.err
}

func (f *fakeReservationTypeStore) Update(ctx context.Context, id int64, req models.UpdateReservationTypeRequest) (*models.ReservationTypeRow, error) {
	return f.updateResult, f.err
}

func (f *fakeReservationTypeStore) Delete(ctx context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return id == 1, nil
}

type fakeSearcher struct {
	indexed []models.CustomerView
	deleted []string
	results []models.CustomerView
	err     error
}

func (f *fakeSearcher) IndexCustomer(ctx context.Context, customer models.CustomerView) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, customer)
	return nil
}

func (f *fakeSearcher) DeleteCustomer(ctx context.Context, documentID string) error {
	f.deleted = append(f.deleted, documentID)
	return f.err
}

func (f *fakeSearcher) Search(ctx context.Context, query string, size int) ([]models.CustomerView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func strPtr(s string) *string { return &s }

var errBackend = fmt.Errorf("connection refused")
