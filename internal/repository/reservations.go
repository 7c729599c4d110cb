package repository

import (
	"context"
	"database/sql"

	"github.com/eugenek0529/reservation-system/internal/database"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/models"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts a reservation. The capacity trigger rejects overbooking with P0001.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	query := `
		INSERT INTO reservations (guest_count, status, special_requirements, user_id, customer_id, reservation_availability_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		res.GuestCount,
		res.Status,
		res.SpecialRequirements,
		res.UserID,
		res.CustomerID,
		res.ReservationAvailabilityID,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return apperrors.Provider("insert reservation", err)
	}
	return nil
}

// UpdateStatus changes the status of a reservation and returns the date it belongs to.
// A missing reservation yields "", nil.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, status string) (string, error) {
	query := `
		UPDATE reservations r SET status = $2
		FROM reservation_availability ra
		WHERE r.id = $1 AND ra.id = r.reservation_availability_id
		RETURNING ra.available_date::text`

	var date string
	err := r.db.QueryRowContext(ctx, query, id, status).Scan(&date)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperrors.Provider("update reservation status", err)
	}
	return date, nil
}
