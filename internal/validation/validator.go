// Package validation checks facade inputs before any backend call is made.
package validation

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date checks a YYYY-MM-DD calendar date
func Date(field, value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return apperrors.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return nil
}

// MonthStart checks a YYYY-MM-01 date
func MonthStart(field, value string) error {
	t, err := time.Parse(dateLayout, value)
	if err != nil || t.Day() != 1 {
		return apperrors.Validation(fmt.Sprintf("%s must be the first day of a month (YYYY-MM-01)", field))
	}
	return nil
}

// ClockTime checks a zero-padded HH:MM time of day
func ClockTime(field, value string) error {
	if len(value) != 5 {
		return apperrors.Validation(fmt.Sprintf("%s must be in HH:MM format", field))
	}
	if _, err := time.Parse(timeLayout, value); err != nil {
		return apperrors.Validation(fmt.Sprintf("%s must be in HH:MM format", field))
	}
	return nil
}

// Required checks that a string is non-empty after trimming
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.Validation(fmt.Sprintf("%s is required", field))
	}
	return nil
}

// Price checks an optional per-person price
func Price(price *float64) error {
	if price != nil && *price < 0 {
		return apperrors.Validation("price per person must be zero or greater")
	}
	return nil
}

// ReservationType validates the simple creation form
func ReservationType(req models.CreateReservationTypeRequest) error {
	if err := Required("name", req.Name); err != nil {
		return err
	}
	return Price(req.PricePerPerson)
}

// ReservationTypeWithSchedule validates the compound creation form
func ReservationTypeWithSchedule(req models.CreateReservationTypeWithScheduleRequest) error {
	if err := Required("name", req.Name); err != nil {
		return err
	}
	if req.MaxCapacity <= 0 {
		return apperrors.Validation("max capacity must be greater than zero")
	}
	if err := ClockTime("start time", req.TimeSlot.StartTime); err != nil {
		return err
	}
	if err := ClockTime("end time", req.TimeSlot.EndTime); err != nil {
		return err
	}
	if req.TimeSlot.EndTime <= req.TimeSlot.StartTime {
		return apperrors.Validation("end time must be after start time")
	}
	if len(req.TimeSlot.DaysOfWeek) == 0 {
		return apperrors.Validation("at least one day of week is required")
	}
	for _, d := range req.TimeSlot.DaysOfWeek {
		if d < 0 || d > 6 {
			return apperrors.Validation("days of week must be between 0 (Sunday) and 6 (Saturday)")
		}
	}
	return Price(req.PricePerPerson)
}

// Reservation validates a booking before any lookup or write
func Reservation(req models.CreateReservationRequest) error {
	if req.ReservationAvailabilityID <= 0 {
		return apperrors.Validation("reservation availability id is required")
	}
	if req.Guests <= 0 {
		return apperrors.Validation("guests must be greater than zero")
	}
	if req.UserID == nil {
		if err := Required("name", req.Name); err != nil {
			return err
		}
		if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Phone) == "" {
			return apperrors.Validation("email or phone is required")
		}
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return apperrors.Validation(fmt.Sprintf("invalid status %q", req.Status))
	}
	return nil
}

// Status validates a reservation status change
func Status(status string) error {
	if !models.ValidStatus(status) {
		return apperrors.Validation(fmt.Sprintf("invalid status %q", status))
	}
	return nil
}
