package models

import "time"

// NATS Event Types
const (
	EventReservationCreated       = "reservation.created"
	EventReservationStatusChanged = "reservation.status_changed"
	EventMonthSeeded              = "month.seeded"
)

// ReservationCreatedEvent represents a booking creation event
type ReservationCreatedEvent struct {
	ReservationID  int64     `json:"reservation_id"`
	AvailabilityID int64     `json:"reservation_availability_id"`
	Date           string    `json:"date"`
	Guests         int       `json:"guests"`
	CustomerID     *int64    `json:"customer_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// ReservationStatusChangedEvent represents an admin status change
type ReservationStatusChangedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
}

// MonthSeededEvent represents a month whose availability was materialized
type MonthSeededEvent struct {
	Month     string    `json:"month"`
	Created   int       `json:"created"`
	Timestamp time.Time `json:"timestamp"`
}
