package models

import (
	"time"
)

// Reservation statuses accepted by the reservations table
const (
	StatusReserved  = "reserved"
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusHold      = "hold"
)

// ValidStatus reports whether s is a known reservation status
func ValidStatus(s string) bool {
	switch s {
	case StatusReserved, StatusPending, StatusConfirmed, StatusCancelled, StatusHold:
		return true
	}
	return false
}

// ReservationTypeRow is a row of reservation_type
type ReservationTypeRow struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description" db:"description"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	PricePerPerson *float64  `json:"price_per_person" db:"price_per_person"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// TimeSlot is a recurring schedule window
type TimeSlot struct {
	ID         int64  `json:"id" db:"id"`
	StartTime  string `json:"start_time" db:"start_time"`
	EndTime    string `json:"end_time" db:"end_time"`
	DaysOfWeek []int  `json:"days_of_week" db:"days_of_week"`
}

// ReservationSlot binds a reservation type to a time slot with a capacity
type ReservationSlot struct {
	ID                int64 `json:"id" db:"id"`
	ReservationTypeID int64 `json:"reservation_type_id" db:"reservation_type_id"`
	TimeSlotID        int64 `json:"time_slot_id" db:"time_slot_id"`
	MaxCapacity       int   `json:"max_capacity" db:"max_capacity"`
	IsActive          bool  `json:"is_active" db:"is_active"`
}

// CapacityRow is one (day, slot) entry of a month as returned for metrics.
// Pending is zero unless the backend tracks it.
type CapacityRow struct {
	AvailableDate     string `json:"available_date" db:"available_date"`
	CurrentCapacity   int    `json:"current_capacity" db:"current_capacity"`
	Pending           int    `json:"pending" db:"pending"`
	MaxCapacity       int    `json:"max_capacity" db:"max_capacity"`
	ReservationSlotID int64  `json:"reservation_slot_id" db:"reservation_slot_id"`
}

// SlotAvailabilityRow is an availability row joined with its slot, time window and type
type SlotAvailabilityRow struct {
	AvailabilityID      int64    `json:"id" db:"id"`
	ReservationSlotID   int64    `json:"reservation_slot_id" db:"reservation_slot_id"`
	AvailableDate       string   `json:"available_date" db:"available_date"`
	CurrentCapacity     int      `json:"current_capacity" db:"current_capacity"`
	MaxCapacity         int      `json:"max_capacity" db:"max_capacity"`
	IsActive            bool     `json:"is_active" db:"is_active"`
	StartTime           string   `json:"start_time" db:"start_time"`
	EndTime             string   `json:"end_time" db:"end_time"`
	ReservationTypeName string   `json:"reservation_type_name" db:"reservation_type_name"`
	PricePerPerson      *float64 `json:"price_per_person" db:"price_per_person"`
}

// Reservation is a row of reservations. Exactly one of UserID or CustomerID is set.
type Reservation struct {
	ID                        int64     `json:"id" db:"id"`
	GuestCount                int       `json:"guest_count" db:"guest_count"`
	Status                    string    `json:"status" db:"status"`
	SpecialRequirements       *string   `json:"special_requirements" db:"special_requirements"`
	UserID                    *string   `json:"user_id" db:"user_id"`
	CustomerID                *int64    `json:"customer_id" db:"customer_id"`
	ReservationAvailabilityID int64     `json:"reservation_availability_id" db:"reservation_availability_id"`
	CreatedAt                 time.Time `json:"created_at" db:"created_at"`
}

// DailyReservationRow is a reservation joined with guest and slot data for one date
type DailyReservationRow struct {
	ID                  int64   `json:"id" db:"id"`
	GuestCount          int     `json:"guest_count" db:"guest_count"`
	SpecialRequirements *string `json:"special_requirements" db:"special_requirements"`
	Status              *string `json:"status" db:"status"`
	UserProfileName     *string `json:"user_profile_name" db:"user_profile_name"`
	CustomerName        *string `json:"customer_name" db:"customer_name"`
	ReservationTypeName *string `json:"reservation_type_name" db:"reservation_type_name"`
	StartTime           *string `json:"start_time" db:"start_time"`
}

// Customer is a guest entered by an admin
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserProfile is a self-registered guest
type UserProfile struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ScheduleSlotRow is one element of the get_daily_schedule JSON array
type ScheduleSlotRow struct {
	ReservationSlotID   int64                    `json:"reservation_slot_id"`
	StartTime           string                   `json:"start_time"`
	EndTime             string                   `json:"end_time"`
	ReservationTypeName string                   `json:"reservation_type_name"`
	MaxCapacity         int                      `json:"max_capacity"`
	CurrentCapacity     int                      `json:"current_capacity"`
	Reservations        []ScheduleReservationRow `json:"reservations"`
}

// ScheduleReservationRow is a reservation nested in a ScheduleSlotRow
type ScheduleReservationRow struct {
	ID                  int64   `json:"id"`
	GuestName           *string `json:"guest_name"`
	GuestCount          int     `json:"guest_count"`
	Status              *string `json:"status"`
	SpecialRequirements *string `json:"special_requirements"`
}

// RemainingCapacity returns max - current floored at zero
func RemainingCapacity(max, current int) int {
	if remaining := max - current; remaining > 0 {
		return remaining
	}
	return 0
}
