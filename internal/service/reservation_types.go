package service

import (
	"context"
	"strings"

	"github.com/eugenek0529/reservation-system/internal/adapters"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/logger"
	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/validation"
)

type ReservationTypeService struct {
	repo ReservationTypeStore
}

func NewReservationTypeService(repo ReservationTypeStore) *ReservationTypeService {
	return &ReservationTypeService{repo: repo}
}

func priceOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (s *ReservationTypeService) Create(ctx context.Context, req models.CreateReservationTypeRequest) (*models.ReservationType, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.ReservationType(req); err != nil {
		return nil, err
	}
	price := priceOrZero(req.PricePerPerson)
	req.PricePerPerson = &price

	row := adapters.ReservationTypeToRow(req)
	if err := s.repo.Create(ctx, &row); err != nil {
		return nil, apperrors.Wrap(err, "failed to create reservation type")
	}

	logger.WithContext(ctx).Info("Reservation type created", "id", row.ID, "name", row.Name)
	rt := adapters.ReservationTypeFromRow(row)
	return &rt, nil
}

// ScheduleParamsFromRequest builds the arguments of create_reservation_type_with_schedule
// from a normalized form.
func ScheduleParamsFromRequest(req models.CreateReservationTypeWithScheduleRequest) models.ScheduleParams {
	return models.ScheduleParams{
		Name:           req.Name,
		Description:    req.Description,
		PricePerPerson: priceOrZero(req.PricePerPerson),
		IsActive:       req.IsActive,
		MaxCapacity:    req.MaxCapacity,
		StartTime:      req.TimeSlot.StartTime,
		EndTime:        req.TimeSlot.EndTime,
		DaysOfWeek:     req.TimeSlot.DaysOfWeek,
	}
}

// CreateWithSchedule creates a reservation type, its time slot and its capacity in one call
func (s *ReservationTypeService) CreateWithSchedule(ctx context.Context, req models.CreateReservationTypeWithScheduleRequest) (*models.CreatedResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.TimeSlot.StartTime = strings.TrimSpace(req.TimeSlot.StartTime)
	req.TimeSlot.EndTime = strings.TrimSpace(req.TimeSlot.EndTime)
	if err := validation.ReservationTypeWithSchedule(req); err != nil {
		return nil, err
	}

	id, err := s.repo.CreateWithSchedule(ctx, ScheduleParamsFromRequest(req))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create reservation type with schedule")
	}

	logger.WithContext(ctx).Info("Reservation type with schedule created",
		"id", id,
		"name", req.Name,
		"max_capacity", req.MaxCapacity,
		"days_of_week", req.TimeSlot.DaysOfWeek)
	return &models.CreatedResponse{ID: id}, nil
}

// List returns every reservation type, newest first
func (s *ReservationTypeService) List(ctx context.Context) ([]models.ReservationType, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list reservation types")
	}
	return adapters.ReservationTypesFromRows(rows), nil
}

func (s *ReservationTypeService) Update(ctx context.Context, id int64, req models.UpdateReservationTypeRequest) (*models.ReservationType, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validation.Required("name", name); err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		req.Description = &description
	}
	if err := validation.Price(req.PricePerPerson); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Description == nil && req.IsActive == nil && req.PricePerPerson == nil {
		return nil, apperrors.Validation("no fields to update")
	}

	row, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to update reservation type")
	}
	if row == nil {
		return nil, apperrors.NotFound("reservation type not found")
	}
	rt := adapters.ReservationTypeFromRow(*row)
	return &rt, nil
}

func (s *ReservationTypeService) Delete(ctx context.Context, id int64) (*models.SuccessResponse, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to delete reservation type")
	}
	if !deleted {
		return nil, apperrors.NotFound("reservation type not found")
	}
	logger.WithContext(ctx).Info("Reservation type deleted", "id", id)
	return &models.SuccessResponse{Success: true}, nil
}
