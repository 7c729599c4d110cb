package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/eugenek0529/reservation-system/internal/database"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/models"
)

type AvailabilityRepository struct {
	db *database.DB
}

func NewAvailabilityRepository(db *database.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// MonthExists calls month_availability_exists for the month starting at month (YYYY-MM-01)
func (r *AvailabilityRepository) MonthExists(ctx context.Context, month string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT month_availability_exists($1::date)`, month).Scan(&exists)
	if err != nil {
		return false, apperrors.Provider("month_availability_exists", err)
	}
	return exists, nil
}

// SeedMonth calls seed_month_availability and returns the number of rows created
func (r *AvailabilityRepository) SeedMonth(ctx context.Context, month string) (int, error) {
	var created int
	err := r.db.QueryRowContext(ctx, `SELECT seed_month_availability($1::date)`, month).Scan(&created)
	if err != nil {
		return 0, apperrors.Provider("seed_month_availability", err)
	}
	return created, nil
}

// MonthlyCapacity returns the raw capacity rows of [start, end)
func (r *AvailabilityRepository) MonthlyCapacity(ctx context.Context, start, end string) ([]models.CapacityRow, error) {
	query := `
		SELECT ra.available_date::text, ra.current_capacity, ra.pending,
		       rs.max_capacity, ra.reservation_slot_id
		FROM reservation_availability ra
		JOIN reservation_slots rs ON rs.id = ra.reservation_slot_id
		WHERE ra.available_date >= $1::date AND ra.available_date < $2::date
		ORDER BY ra.available_date, ra.reservation_slot_id`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, apperrors.Provider("monthly capacity query", err)
	}
	defer rows.Close()

	result := []models.CapacityRow{}
	for rows.Next() {
		var row models.CapacityRow
		if err := rows.Scan(
			&row.AvailableDate,
			&row.CurrentCapacity,
			&row.Pending,
			&row.MaxCapacity,
			&row.ReservationSlotID,
		); err != nil {
			return nil, apperrors.Provider("monthly capacity scan", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Provider("monthly capacity rows", err)
	}
	return result, nil
}

// DailySchedule calls get_daily_schedule and decodes its JSON payload
func (r *AvailabilityRepository) DailySchedule(ctx context.Context, date string) ([]models.ScheduleSlotRow, error) {
	var raw []byte
	if err := r.db.QueryRowContext(ctx, `SELECT get_daily_schedule($1::date)`, date).Scan(&raw); err != nil {
		return nil, apperrors.Provider("get_daily_schedule", err)
	}

	slots := []models.ScheduleSlotRow{}
	if len(raw) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, apperrors.Provider("get_daily_schedule decode", err)
	}
	return slots, nil
}

// DailyReservations returns the flat reservation rows of a date
func (r *AvailabilityRepository) DailyReservations(ctx context.Context, date string) ([]models.DailyReservationRow, error) {
	query := `
		SELECT r.id, r.guest_count, r.special_requirements, r.status,
		       up.name, c.name, rt.name, to_char(ts.start_time, 'HH24:MI')
		FROM reservations r
		JOIN reservation_availability ra ON ra.id = r.reservation_availability_id
		LEFT JOIN reservation_slots rs ON rs.id = ra.reservation_slot_id
		LEFT JOIN time_slots ts ON ts.id = rs.time_slot_id
		LEFT JOIN reservation_type rt ON rt.id = rs.reservation_type_id
		LEFT JOIN user_profiles up ON up.id = r.user_id
		LEFT JOIN customers c ON c.id = r.customer_id
		WHERE ra.available_date = $1::date
		ORDER BY ts.start_time, r.created_at`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, apperrors.Provider("daily reservations query", err)
	}
	defer rows.Close()

	result := []models.DailyReservationRow{}
	for rows.Next() {
		var row models.DailyReservationRow
		if err := rows.Scan(
			&row.ID,
			&row.GuestCount,
			&row.SpecialRequirements,
			&row.Status,
			&row.UserProfileName,
			&row.CustomerName,
			&row.ReservationTypeName,
			&row.StartTime,
		); err != nil {
			return nil, apperrors.Provider("daily reservations scan", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Provider("daily reservations rows", err)
	}
	return result, nil
}

const slotAvailabilitySelect = `
		SELECT ra.id, ra.reservation_slot_id, ra.available_date::text, ra.current_capacity,
		       rs.max_capacity, (rs.is_active AND rt.is_active),
		       to_char(ts.start_time, 'HH24:MI'), to_char(ts.end_time, 'HH24:MI'),
		       rt.name, rt.price_per_person
		FROM reservation_availability ra
		JOIN reservation_slots rs ON rs.id = ra.reservation_slot_id
		JOIN time_slots ts ON ts.id = rs.time_slot_id
		JOIN reservation_type rt ON rt.id = rs.reservation_type_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanSlotAvailability(s scanner) (models.SlotAvailabilityRow, error) {
	var row models.SlotAvailabilityRow
	err := s.Scan(
		&row.AvailabilityID,
		&row.ReservationSlotID,
		&row.AvailableDate,
		&row.CurrentCapacity,
		&row.MaxCapacity,
		&row.IsActive,
		&row.StartTime,
		&row.EndTime,
		&row.ReservationTypeName,
		&row.PricePerPerson,
	)
	return row, err
}

// SlotsForDate returns every availability row of a date with its slot data
func (r *AvailabilityRepository) SlotsForDate(ctx context.Context, date string) ([]models.SlotAvailabilityRow, error) {
	query := slotAvailabilitySelect + `
		WHERE ra.available_date = $1::date
		ORDER BY ts.start_time, ra.id`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, apperrors.Provider("available slots query", err)
	}
	defer rows.Close()

	result := []models.SlotAvailabilityRow{}
	for rows.Next() {
		row, err := scanSlotAvailability(rows)
		if err != nil {
			return nil, apperrors.Provider("available slots scan", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Provider("available slots rows", err)
	}
	return result, nil
}

// GetAvailability re-reads one availability row. A missing row yields nil, nil.
func (r *AvailabilityRepository) GetAvailability(ctx context.Context, id int64) (*models.SlotAvailabilityRow, error) {
	row, err := scanSlotAvailability(r.db.QueryRowContext(ctx, slotAvailabilitySelect+`
		WHERE ra.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Provider("availability lookup", err)
	}
	return &row, nil
}
