package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/eugenek0529/reservation-system/internal/database"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/models"
)

type CustomerRepository struct {
	db *database.DB
}

func NewCustomerRepository(db *database.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(s scanner) (*models.Customer, error) {
	c := &models.Customer{}
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	return c, err
}

func (r *CustomerRepository) queryCustomers(ctx context.Context, op, query string, args ...interface{}) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Provider(op, err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, apperrors.Provider(op, err)
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Provider(op, err)
	}
	return customers, nil
}

func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return r.queryCustomers(ctx, "list customers", customerSelect+`
		ORDER BY created_at DESC`)
}

func (r *CustomerRepository) ListProfiles(ctx context.Context) ([]models.UserProfile, error) {
	query := `
		SELECT id::text, name, email, phone, created_at
		FROM user_profiles
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Provider("list user_profiles", err)
	}
	defer rows.Close()

	profiles := []models.UserProfile{}
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt); err != nil {
			return nil, apperrors.Provider("list user_profiles", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Provider("list user_profiles", err)
	}
	return profiles, nil
}

// GetByID returns nil, nil when the customer does not exist
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	return r.findOne(ctx, "get customer", customerSelect+`
		WHERE id = $1`, id)
}

const customerSelect = `
		SELECT id, name, email, phone, created_at
		FROM customers`

// FindByEmail returns the oldest customer with a case-insensitive email match, or nil
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return r.findOne(ctx, "find customer by email", customerSelect+`
		WHERE lower(email) = lower($1)
		ORDER BY created_at ASC
		LIMIT 1`, email)
}

// FindByPhone returns the oldest customer with this phone, or nil
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return r.findOne(ctx, "find customer by phone", customerSelect+`
		WHERE phone = $1
		ORDER BY created_at ASC
		LIMIT 1`, phone)
}

func (r *CustomerRepository) findOne(ctx context.Context, op, query string, args ...interface{}) (*models.Customer, error) {
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Provider(op, err)
	}
	return c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.Name, c.Email, c.Phone,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return apperrors.Provider("insert customer", err)
	}
	return nil
}

// Update applies the non-nil fields of req. A missing id yields nil, nil.
func (r *CustomerRepository) Update(ctx context.Context, id int64, req models.UpdateCustomerRequest) (*models.Customer, error) {
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
	if req.Email != nil {
		add("email", nullable(*req.Email))
	}
	if req.Phone != nil {
		add("phone", nullable(*req.Phone))
	}
	if len(sets) == 0 {
		return nil, apperrors.Validation("no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE customers SET %s
		WHERE id = $%d
		RETURNING id, name, email, phone, created_at`,
		strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Provider("update customer", err)
	}
	return c, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.Provider("delete customer", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Provider("delete customer", err)
	}
	return affected > 0, nil
}

// nullable maps an empty string to SQL NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
