package repository

import (
	"github.com/eugenek0529/reservation-system/internal/database"
)

type Repositories struct {
	Availability     *AvailabilityRepository
	ReservationTypes *ReservationTypeRepository
	Customers        *CustomerRepository
	Reservations     *ReservationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Availability:     NewAvailabilityRepository(db),
		ReservationTypes: NewReservationTypeRepository(db),
		Customers:        NewCustomerRepository(db),
		Reservations:     NewReservationRepository(db),
	}
}
