package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eugenek0529/reservation-system/internal/adapters"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/logger"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/schedule"
	"github.com/eugenek0529/reservation-system/internal/validation"
)

type AvailabilityService struct {
	availability AvailabilityStore
	reservations ReservationStore
	customers    CustomerStore
	publisher    Publisher
	invalidator  Invalidator
	metrics      *metrics.Metrics
}

func NewAvailabilityService(availability AvailabilityStore, reservations ReservationStore, customers CustomerStore, publisher Publisher, m *metrics.Metrics) *AvailabilityService {
	return &AvailabilityService{
		availability: availability,
		reservations: reservations,
		customers:    customers,
		publisher:    publisher,
		metrics:      m,
	}
}

// SetInvalidator registers the component told about reservation changes
func (s *AvailabilityService) SetInvalidator(inv Invalidator) {
	s.invalidator = inv
}

// MonthExists reports whether any availability row exists in the month. Never cached.
func (s *AvailabilityService) MonthExists(ctx context.Context, month string) (*models.MonthExistsResponse, error) {
	if err := validation.MonthStart("month", month); err != nil {
		return nil, err
	}
	exists, err := s.availability.MonthExists(ctx, month)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to check month availability")
	}
	return &models.MonthExistsResponse{Month: month, Exists: exists}, nil
}

// EnsureMonthAvailability materializes the availability rows of a month. Calling it
// again for a seeded month creates nothing.
func (s *AvailabilityService) EnsureMonthAvailability(ctx context.Context, month string) (*models.SeedMonthResponse, error) {
	if err := validation.MonthStart("month", month); err != nil {
		return nil, err
	}
	created, err := s.availability.SeedMonth(ctx, month)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seed month availability")
	}
	s.metrics.Seeded(created)

	logger.WithContext(ctx).Info("Month availability ensured", "month", month, "created", created)

	if created > 0 {
		event := models.MonthSeededEvent{
			Month:     month,
			Created:   created,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(models.EventMonthSeeded, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish month seeded event",
				"error", err,
				"month", month,
				"event_type", models.EventMonthSeeded)
		}
		s.invalidate(ctx, month)
	}

	return &models.SeedMonthResponse{Created: created}, nil
}

// GetMonthlyMetrics returns the raw capacity rows of [month, next month)
func (s *AvailabilityService) GetMonthlyMetrics(ctx context.Context, month string) ([]models.CapacityRow, error) {
	if err := validation.MonthStart("month", month); err != nil {
		return nil, err
	}
	start, end, err := schedule.MonthRange(month)
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	rows, err := s.availability.MonthlyCapacity(ctx, start, end)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch monthly metrics")
	}
	return rows, nil
}

func (s *AvailabilityService) GetDailySchedule(ctx context.Context, date string) ([]models.ScheduleSlot, error) {
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}
	rows, err := s.availability.DailySchedule(ctx, date)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch daily schedule")
	}
	return adapters.ScheduleFromRows(rows), nil
}

func (s *AvailabilityService) GetDailyReservations(ctx context.Context, date string) ([]models.ReservationView, error) {
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}
	rows, err := s.availability.DailyReservations(ctx, date)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch daily reservations")
	}
	return adapters.ReservationsFromRows(rows), nil
}

// GetAvailableSlots lists the bookable slots of a date
func (s *AvailabilityService) GetAvailableSlots(ctx context.Context, date string) ([]models.AvailableSlot, error) {
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}
	rows, err := s.availability.SlotsForDate(ctx, date)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch available slots")
	}
	return adapters.AvailableSlotsFromRows(rows), nil
}

// CreateReservation books guests on an availability row. The steps are not
// atomic: a customer found or created in the first step is kept even when a
// later step fails, and two concurrent bookings with the same new contact can
// both create a customer.
func (s *AvailabilityService) CreateReservation(ctx context.Context, req *models.CreateReservationRequest) (*models.CreateReservationResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.SpecialRequirements = strings.TrimSpace(req.SpecialRequirements)

	if err := validation.Reservation(*req); err != nil {
		s.metrics.ReservationFailed(string(apperrors.KindValidation))
		return nil, err
	}

	res, date, err := s.createReservation(ctx, req)
	if err != nil {
		s.metrics.ReservationFailed(string(apperrors.KindOf(err)))
		return nil, err
	}
	s.metrics.ReservationCreated(res.Status)

	logger.WithContext(ctx).Info("Reservation created",
		"reservation_id", res.ID,
		"availability_id", res.ReservationAvailabilityID,
		"guests", res.GuestCount,
		"date", date)

	event := models.ReservationCreatedEvent{
		ReservationID:  res.ID,
		AvailabilityID: res.ReservationAvailabilityID,
		Date:           date,
		Guests:         res.GuestCount,
		CustomerID:     res.CustomerID,
		Timestamp:      time.Now(),
	}
	if err := s.publisher.Publish(models.EventReservationCreated, event); err != nil {
		// Log error but don't fail the operation
		logger.WithContext(ctx).Error("Failed to publish reservation created event",
			"error", err,
			"reservation_id", res.ID,
			"event_type", models.EventReservationCreated)
	}
	s.invalidate(ctx, date)

	return &models.CreateReservationResponse{
		ID:         res.ID,
		CustomerID: res.CustomerID,
		Status:     res.Status,
	}, nil
}

func (s *AvailabilityService) createReservation(ctx context.Context, req *models.CreateReservationRequest) (*models.Reservation, string, error) {
	res := &models.Reservation{
		GuestCount:                req.Guests,
		Status:                    req.Status,
		SpecialRequirements:       optional(req.SpecialRequirements),
		UserID:                    req.UserID,
		ReservationAvailabilityID: req.ReservationAvailabilityID,
	}
	if res.Status == "" {
		res.Status = models.StatusReserved
	}

	// 1. find or create the customer
	if req.UserID == nil {
		customer, err := s.findOrCreateCustomer(ctx, req)
		if err != nil {
			return nil, "", err
		}
		res.CustomerID = &customer.ID
	}

	// 2. re-read the availability row
	slot, err := s.availability.GetAvailability(ctx, req.ReservationAvailabilityID)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "failed to read availability")
	}
	if slot == nil {
		return nil, "", apperrors.NotFound("reservation availability not found")
	}
	if !slot.IsActive {
		return nil, "", apperrors.Validation("reservation slot is not active")
	}

	// 3. capacity check
	remaining := models.RemainingCapacity(slot.MaxCapacity, slot.CurrentCapacity)
	if req.Guests > remaining {
		return nil, "", apperrors.Capacity(fmt.Sprintf("only %d seats available", remaining))
	}

	// 4. insert
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, "", apperrors.Wrap(err, "failed to create reservation")
	}
	return res, slot.AvailableDate, nil
}

func (s *AvailabilityService) findOrCreateCustomer(ctx context.Context, req *models.CreateReservationRequest) (*models.Customer, error) {
	if req.Email != "" {
		c, err := s.customers.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to look up customer")
		}
		if c != nil {
			return c, nil
		}
	}
	if req.Phone != "" {
		c, err := s.customers.FindByPhone(ctx, req.Phone)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to look up customer")
		}
		if c != nil {
			return c, nil
		}
	}

	c := &models.Customer{
		Name:  req.Name,
		Email: optional(req.Email),
		Phone: optional(req.Phone),
	}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, "failed to create customer")
	}
	logger.WithContext(ctx).Info("Customer created for reservation", "customer_id", c.ID)
	return c, nil
}

// UpdateReservationStatus changes the status of a reservation from the back office
func (s *AvailabilityService) UpdateReservationStatus(ctx context.Context, id int64, status string) (*models.SuccessResponse, error) {
	if err := validation.Status(status); err != nil {
		return nil, err
	}
	date, err := s.reservations.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to update reservation status")
	}
	if date == "" {
		return nil, apperrors.NotFound("reservation not found")
	}
	s.metrics.StatusChanged(status)

	event := models.ReservationStatusChangedEvent{
		ReservationID: id,
		Status:        status,
		Date:          date,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(models.EventReservationStatusChanged, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish reservation status event",
			"error", err,
			"reservation_id", id,
			"event_type", models.EventReservationStatusChanged)
	}
	s.invalidate(ctx, date)

	return &models.SuccessResponse{Success: true}, nil
}

func (s *AvailabilityService) invalidate(ctx context.Context, date string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, date)
	}
}
