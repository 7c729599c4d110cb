package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/eugenek0529/reservation-system/internal/database"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/models"
)

type ReservationTypeRepository struct {
	db *database.DB
}

func NewReservationTypeRepository(db *database.DB) *ReservationTypeRepository {
	return &ReservationTypeRepository{db: db}
}

func (r *ReservationTypeRepository) Create(ctx context.Context, row *models.ReservationTypeRow) error {
	query := `
		INSERT INTO reservation_type (name, description, is_active, price_per_person)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		row.Name,
		row.Description,
		row.IsActive,
		row.PricePerPerson,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return apperrors.Provider("insert reservation_type", err)
	}
	return nil
}

// CreateWithSchedule calls create_reservation_type_with_schedule and returns the new type id
func (r *ReservationTypeRepository) CreateWithSchedule(ctx context.Context, p models.ScheduleParams) (int64, error) {
	query := `
		SELECT create_reservation_type_with_schedule(
			p_name => $1,
			p_description => $2,
			p_price_per_person => $3,
			p_is_active => $4,
			p_max_capacity => $5,
			p_start_time => $6::time,
			p_end_time => $7::time,
			p_days_of_week => $8::integer[]
		)`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Description,
		p.PricePerPerson,
		p.IsActive,
		p.MaxCapacity,
		p.StartTime,
		p.EndTime,
		pq.Array(p.DaysOfWeek),
	).Scan(&id)
	if err != nil {
		return 0, apperrors.Provider("create_reservation_type_with_schedule", err)
	}
	return id, nil
}

func (r *ReservationTypeRepository) List(ctx context.Context) ([]models.ReservationTypeRow, error) {
	query := `
		SELECT id, name, description, is_active, price_per_person, created_at
		FROM reservation_type
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Provider("list reservation_type", err)
	}
	defer rows.Close()

	types := []models.ReservationTypeRow{}
	for rows.Next() {
		var row models.ReservationTypeRow
		if err := rows.Scan(
			&row.ID,
			&row.Name,
			&row.Description,
			&row.IsActive,
			&row.PricePerPerson,
			&row.CreatedAt,
		); err != nil {
			return nil, apperrors.Provider("scan reservation_type", err)
		}
		types = append(types, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Provider("list reservation_type", err)
	}
	return types, nil
}

// Update applies the non-nil fields of req. A missing id yields nil, nil.
func (r *ReservationTypeRepository) Update(ctx context.Context, id int64, req models.UpdateReservationTypeRequest) (*models.ReservationTypeRow, error) {
	var sets []string
	var args []interface{}
	argIndex := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if req.PricePerPerson != nil {
		add("price_per_person", *req.PricePerPerson)
	}
	if len(sets) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE reservation_type SET %s
		WHERE id = $%d
		RETURNING id, name, description, is_active, price_per_person, created_at`,
		strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	row := &models.ReservationTypeRow{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&row.ID,
		&row.Name,
		&row.Description,
		&row.IsActive,
		&row.PricePerPerson,
		&row.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Provider("update reservation_type", err)
	}
	return row, nil
}

// Delete removes a reservation type; its slots and availability cascade
func (r *ReservationTypeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservation_type WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.Provider("delete reservation_type", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Provider("delete reservation_type", err)
	}
	return affected > 0, nil
}
