package models

// ReservationType - reservation type as shown to the admin UI
type ReservationType struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	IsActive       bool     `json:"isActive"`
	PricePerPerson *float64 `json:"pricePerPerson"`
	CreatedAt      string   `json:"createdAt"`
}

// CreateReservationTypeRequest - simple reservation type creation form
type CreateReservationTypeRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	IsActive       bool     `json:"isActive"`
	PricePerPerson *float64 `json:"pricePerPerson"`
}

// UpdateReservationTypeRequest - partial update, nil fields are left untouched
type UpdateReservationTypeRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	IsActive       *bool    `json:"isActive"`
	PricePerPerson *float64 `json:"pricePerPerson"`
}

// TimeSlotForm - time window part of the compound creation form
type TimeSlotForm struct {
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	DaysOfWeek []int  `json:"daysOfWeek"`
}

// CreateReservationTypeWithScheduleRequest - reservation type plus its time slot and capacity
type CreateReservationTypeWithScheduleRequest struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	IsActive       bool         `json:"isActive"`
	PricePerPerson *float64     `json:"pricePerPerson"`
	MaxCapacity    int          `json:"maxCapacity"`
	TimeSlot       TimeSlotForm `json:"timeSlot"`
}

// ScheduleParams - arguments of create_reservation_type_with_schedule
type ScheduleParams struct {
	Name           string  `json:"p_name"`
	Description    string  `json:"p_description"`
	PricePerPerson float64 `json:"p_price_per_person"`
	IsActive       bool    `json:"p_is_active"`
	MaxCapacity    int     `json:"p_max_capacity"`
	StartTime      string  `json:"p_start_time"`
	EndTime        string  `json:"p_end_time"`
	DaysOfWeek     []int   `json:"p_days_of_week"`
}

// SuccessResponse - minimal success shape for writes that return no row
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MonthExistsResponse - result of the month existence check
type MonthExistsResponse struct {
	Month  string `json:"month"`
	Exists bool   `json:"exists"`
}

// SeedMonthRequest - month to materialize availability for
type SeedMonthRequest struct {
	Month string `json:"month" binding:"required"`
}

// SeedMonthResponse - number of availability rows created
type SeedMonthResponse struct {
	Created int `json:"created"`
}

// MonthlyMetric - aggregated capacity of one calendar day
type MonthlyMetric struct {
	Total     int `json:"total"`
	Reserved  int `json:"reserved"`
	Pending   int `json:"pending"`
	Available int `json:"available"`
}

// ScheduleReservation - reservation inside a daily schedule slot
type ScheduleReservation struct {
	ID                  int64  `json:"id"`
	GuestName           string `json:"guestName"`
	GuestCount          int    `json:"guestCount"`
	Status              string `json:"status"`
	SpecialRequirements string `json:"specialRequirements"`
}

// ScheduleSlot - one time slot of a daily schedule with its reservations
type ScheduleSlot struct {
	ReservationSlotID   int64                 `json:"reservationSlotId"`
	StartTime           string                `json:"startTime"`
	EndTime             string                `json:"endTime"`
	ReservationTypeName string                `json:"reservationTypeName"`
	MaxCapacity         int                   `json:"maxCapacity"`
	CurrentCapacity     int                   `json:"currentCapacity"`
	Reservations        []ScheduleReservation `json:"reservations"`
}

// ReservationView - flat reservation row for the admin list
type ReservationView struct {
	ID              int64  `json:"id"`
	GuestName       string `json:"guestName"`
	GuestCount      int    `json:"guestCount"`
	Note            string `json:"note"`
	ReservationTime string `json:"reservationTime"`
	Status          string `json:"status"`
	ReservationType string `json:"reservationType"`
}

// AvailableSlot - bookable slot of a date for the public widget
type AvailableSlot struct {
	AvailabilityID      int64    `json:"availabilityId"`
	ReservationSlotID   int64    `json:"reservationSlotId"`
	Date                string   `json:"date"`
	StartTime           string   `json:"startTime"`
	EndTime             string   `json:"endTime"`
	ReservationTypeName string   `json:"reservationTypeName"`
	MaxCapacity         int      `json:"maxCapacity"`
	CurrentCapacity     int      `json:"currentCapacity"`
	AvailableCapacity   int      `json:"availableCapacity"`
	PricePerPerson      *float64 `json:"pricePerPerson"`
}

// CreateReservationRequest - booking from the public widget or the admin form
type CreateReservationRequest struct {
	ReservationAvailabilityID int64   `json:"reservationAvailabilityId"`
	Guests                    int     `json:"guests"`
	Name                      string  `json:"name"`
	Email                     string  `json:"email"`
	Phone                     string  `json:"phone"`
	SpecialRequirements       string  `json:"specialRequirements"`
	Status                    string  `json:"status"`
	UserID                    *string `json:"userId,omitempty"`
}

// CreateReservationResponse - created reservation
type CreateReservationResponse struct {
	ID         int64  `json:"id"`
	CustomerID *int64 `json:"customerId,omitempty"`
	Status     string `json:"status"`
}

// UpdateReservationStatusRequest - admin status change
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateCustomerRequest - admin-entered guest
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateCustomerRequest - partial customer update
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Identity sources of the customer directory
const (
	SourceUserProfile = "user_profile"
	SourceCustomer    = "customer"
)

// IdentityRecord - either a self-registered profile or an admin-entered customer.
// Source tells which table the record came from.
type IdentityRecord struct {
	Source  string
	Profile *UserProfile
	WalkIn  *Customer
}

// CustomerView - unified read-only customer directory entry
type CustomerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	MemberSince string `json:"memberSince"`
	Visits      int    `json:"visits"`
	LastVisit   string `json:"lastVisit"`
	Status      string `json:"status"`
	Source      string `json:"source"`
}

// CreatedResponse - id of a record created through a remote procedure
type CreatedResponse struct {
	ID int64 `json:"id"`
}
