package service

import (
	"context"

	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/repository"
)

// Publisher sends domain events. *messaging.NATSClient implements it.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Invalidator is told when the reservations of a date changed
type Invalidator interface {
	Invalidate(ctx context.Context, date string)
}

type AvailabilityStore interface {
	MonthExists(ctx context.Context, month string) (bool, error)
	SeedMonth(ctx context.Context, month string) (int, error)
	MonthlyCapacity(ctx context.Context, start, end string) ([]models.CapacityRow, error)
	DailySchedule(ctx context.Context, date string) ([]models.ScheduleSlotRow, error)
	DailyReservations(ctx context.Context, date string) ([]models.DailyReservationRow, error)
	SlotsForDate(ctx context.Context, date string) ([]models.SlotAvailabilityRow, error)
	GetAvailability(ctx context.Context, id int64) (*models.SlotAvailabilityRow, error)
}

type ReservationStore interface {
	Create(ctx context.Context, res *models.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status string) (string, error)
}

type ReservationTypeStore interface {
	Create(ctx context.Context, row *models.ReservationTypeRow) error
	CreateWithSchedule(ctx context.Context, p models.ScheduleParams) (int64, error)
	List(ctx context.Context) ([]models.ReservationTypeRow, error)
	Update(ctx context.Context, id int64, req models.UpdateReservationTypeRequest) (*models.ReservationTypeRow, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, id int64, req models.UpdateCustomerRequest) (*models.Customer, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CustomerSearcher is the full-text customer directory. *search.CustomerIndex implements it.
type CustomerSearcher interface {
	IndexCustomer(ctx context.Context, customer models.CustomerView) error
	DeleteCustomer(ctx context.Context, documentID string) error
	Search(ctx context.Context, query string, size int) ([]models.CustomerView, error)
}

type Services struct {
	Availability     *AvailabilityService
	ReservationTypes *ReservationTypeService
	Customers        *CustomerService
}

// NewServices wires the facades. searcher may be nil when Elasticsearch is not configured.
func NewServices(repos *repository.Repositories, publisher Publisher, searcher CustomerSearcher, m *metrics.Metrics) *Services {
	return &Services{
		Availability:     NewAvailabilityService(repos.Availability, repos.Reservations, repos.Customers, publisher, m),
		ReservationTypes: NewReservationTypeService(repos.ReservationTypes),
		Customers:        NewCustomerService(repos.Customers, searcher),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
