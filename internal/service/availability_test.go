package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/models"
)

type availabilityFixture struct {
	svc          *AvailabilityService
	avail        *fakeAvailabilityStore
	reservations *fakeReservationStore
	customers    *fakeCustomerStore
	publisher    *fakePublisher
	invalidator  *fakeInvalidator
	metrics      *metrics.Metrics
}

func newAvailabilityFixture() *availabilityFixture {
	f := &availabilityFixture{
		avail:        newFakeAvailabilityStore(),
		reservations: newFakeReservationStore(),
		customers:    &fakeCustomerStore{},
		publisher:    &fakePublisher{},
		invalidator:  &fakeInvalidator{},
		metrics:      metrics.New(),
	}
	f.svc = NewAvailabilityService(f.avail, f.reservations, f.customers, f.publisher, f.metrics)
	f.svc.SetInvalidator(f.invalidator)
	f.avail.slots[7] = &models.SlotAvailabilityRow{
		AvailabilityID:  7,
		AvailableDate:   "2025-03-10",
		MaxCapacity:     12,
		CurrentCapacity: 10,
		IsActive:        true,
	}
	return f
}

func walkInRequest(guests int) *models.CreateReservationRequest {
	return &models.CreateReservationRequest{
		ReservationAvailabilityID: 7,
		Guests:                    guests,
		Name:                      "  Ana Lima ",
		Email:                     "ana@example.com",
	}
}

func TestEnsureMonthAvailabilityIsIdempotent(t *testing.T) {
	f := newAvailabilityFixture()
	ctx := context.Background()

	first, err := f.svc.EnsureMonthAvailability(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 31, first.Created)

	second, err := f.svc.EnsureMonthAvailability(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)

	// only the call that created rows publishes and invalidates
	assert.Equal(t, []string{models.EventMonthSeeded}, f.publisher.subjects())
	assert.Equal(t, []string{"2025-03-01"}, f.invalidator.dates)
	assert.Equal(t, 31.0, testutil.ToFloat64(f.metrics.AvailabilitySeeded))

	exists, err := f.svc.MonthExists(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.True(t, exists.Exists)
}

func TestEnsureMonthAvailabilityRejectsBadMonth(t *testing.T) {
	f := newAvailabilityFixture()

	_, err := f.svc.EnsureMonthAvailability(context.Background(), "2025-03-15")

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, f.avail.calls)
}

func TestGetMonthlyMetricsUsesOneMonth(t *testing.T) {
	f := newAvailabilityFixture()
	f.avail.capacityRows = []models.CapacityRow{{AvailableDate: "2025-12-31", MaxCapacity: 10}}

	rows, err := f.svc.GetMonthlyMetrics(context.Background(), "2025-12-01")

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, [2]string{"2025-12-01", "2026-01-01"}, f.avail.capacityRange)
}

func TestGetDailyScheduleProviderError(t *testing.T) {
	f := newAvailabilityFixture()
	f.avail.err = apperrors.Provider("get_daily_schedule", errBackend)

	_, err := f.svc.GetDailySchedule(context.Background(), "2025-03-10")

	require.Error(t, err)
	assert.Equal(t, apperrors.KindProvider, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "failed to fetch daily schedule")
}

func TestCreateReservationCreatesCustomer(t *testing.T) {
	f := newAvailabilityFixture()

	resp, err := f.svc.CreateReservation(context.Background(), walkInRequest(2))
	require.NoError(t, err)

	require.Len(t, f.customers.customers, 1)
	assert.Equal(t, "Ana Lima", f.customers.customers[0].Name)
	require.NotNil(t, resp.CustomerID)
	assert.Equal(t, f.customers.customers[0].ID, *resp.CustomerID)
	assert.Equal(t, models.StatusReserved, resp.Status)

	require.Len(t, f.reservations.created, 1)
	res := f.reservations.created[0]
	assert.Equal(t, 2, res.GuestCount)
	assert.Nil(t, res.UserID)
	assert.Nil(t, res.SpecialRequirements)
	assert.Equal(t, int64(7), res.ReservationAvailabilityID)

	assert.Equal(t, []string{models.EventReservationCreated}, f.publisher.subjects())
	event := f.publisher.events[0].data.(models.ReservationCreatedEvent)
	assert.Equal(t, "2025-03-10", event.Date)
	assert.Equal(t, []string{"2025-03-10"}, f.invalidator.dates)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsCreated.WithLabelValues(models.StatusReserved)))
}

func TestCreateReservationReusesExistingCustomer(t *testing.T) {
	f := newAvailabilityFixture()
	f.customers.customers = []models.Customer{
		{ID: 5, Name: "Ana", Email: strPtr("ANA@example.com")},
		{ID: 6, Name: "Bo", Phone: strPtr("+200")},
	}

	resp, err := f.svc.CreateReservation(context.Background(), walkInRequest(1))
	require.NoError(t, err)
	assert.Equal(t, int64(5), *resp.CustomerID)

	byPhone := &models.CreateReservationRequest{ReservationAvailabilityID: 7, Guests: 1, Name: "Bo", Phone: "+200"}
	resp, err = f.svc.CreateReservation(context.Background(), byPhone)
	require.NoError(t, err)
	assert.Equal(t, int64(6), *resp.CustomerID)

	assert.Equal(t, 0, f.customers.creates)
}

func TestCreateReservationRegisteredUser(t *testing.T) {
	f := newAvailabilityFixture()
	userID := "2b7c"

	resp, err := f.svc.CreateReservation(context.Background(), &models.CreateReservationRequest{
		ReservationAvailabilityID: 7,
		Guests:                    2,
		UserID:                    &userID,
		Status:                    models.StatusConfirmed,
		SpecialRequirements:       " birthday ",
	})
	require.NoError(t, err)

	assert.Nil(t, resp.CustomerID)
	assert.Equal(t, models.StatusConfirmed, resp.Status)
	assert.Equal(t, 0, f.customers.creates)
	require.Len(t, f.reservations.created, 1)
	assert.Equal(t, "birthday", *f.reservations.created[0].SpecialRequirements)
	assert.Equal(t, userID, *f.reservations.created[0].UserID)
}

func TestCreateReservationOverCapacity(t *testing.T) {
	f := newAvailabilityFixture()

	_, err := f.svc.CreateReservation(context.Background(), walkInRequest(5))

	require.Error(t, err)
	assert.Equal(t, apperrors.KindCapacity, apperrors.KindOf(err))
	assert.EqualError(t, err, "only 2 seats available")
	assert.Empty(t, f.reservations.created)
	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.invalidator.dates)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsFailed.WithLabelValues("capacity")))
}

func TestCreateReservationValidationBeforeAnyCall(t *testing.T) {
	f := newAvailabilityFixture()
	req := walkInRequest(2)
	req.Name = "   "

	_, err := f.svc.CreateReservation(context.Background(), req)

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, f.avail.calls)
	assert.Equal(t, 0, f.customers.creates)
	assert.Empty(t, f.reservations.created)
}

func TestCreateReservationMissingOrInactiveSlot(t *testing.T) {
	f := newAvailabilityFixture()
	f.avail.slots[8] = &models.SlotAvailabilityRow{AvailabilityID: 8, MaxCapacity: 10, IsActive: false}

	missing := walkInRequest(1)
	missing.ReservationAvailabilityID = 99
	_, err := f.svc.CreateReservation(context.Background(), missing)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	inactive := walkInRequest(1)
	inactive.ReservationAvailabilityID = 8
	_, err = f.svc.CreateReservation(context.Background(), inactive)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	assert.Empty(t, f.reservations.created)
}

func TestCreateReservationPublishFailureIsNotFatal(t *testing.T) {
	f := newAvailabilityFixture()
	f.publisher.err = errBackend

	resp, err := f.svc.CreateReservation(context.Background(), walkInRequest(1))

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
}

func TestUpdateReservationStatus(t *testing.T) {
	f := newAvailabilityFixture()
	f.reservations.dates[101] = "2025-03-10"

	resp, err := f.svc.UpdateReservationStatus(context.Background(), 101, models.StatusConfirmed)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusConfirmed, f.reservations.statuses[101])
	assert.Equal(t, []string{models.EventReservationStatusChanged}, f.publisher.subjects())
	assert.Equal(t, []string{"2025-03-10"}, f.invalidator.dates)

	_, err = f.svc.UpdateReservationStatus(context.Background(), 404, models.StatusConfirmed)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = f.svc.UpdateReservationStatus(context.Background(), 101, "seated")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestGetAvailableSlotsSkipsInactive(t *testing.T) {
	f := newAvailabilityFixture()
	f.avail.slots[9] = &models.SlotAvailabilityRow{AvailabilityID: 9, AvailableDate: "2025-03-10", IsActive: false}

	slots, err := f.svc.GetAvailableSlots(context.Background(), "2025-03-10")

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(7), slots[0].AvailabilityID)
	assert.Equal(t, 2, slots[0].AvailableCapacity)
}
