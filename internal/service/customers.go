package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/eugenek0529/reservation-system/internal/adapters"
	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/logger"
	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/validation"
)

const defaultSearchSize = 20

type CustomerService struct {
	repo     CustomerStore
	searcher CustomerSearcher
}

// NewCustomerService builds the customer facade. searcher may be nil.
func NewCustomerService(repo CustomerStore, searcher CustomerSearcher) *CustomerService {
	return &CustomerService{repo: repo, searcher: searcher}
}

// GetCustomers merges self-registered profiles and admin-entered customers
func (s *CustomerService) GetCustomers(ctx context.Context) ([]models.CustomerView, error) {
	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch user profiles")
	}
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch customers")
	}
	return adapters.MergeCustomers(profiles, customers), nil
}

func (s *CustomerService) GetByID(ctx context.Context, id int64) (*models.CustomerView, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to fetch customer")
	}
	if c == nil {
		return nil, apperrors.NotFound("customer not found")
	}
	view := adapters.CustomerView(*c)
	return &view, nil
}

func (s *CustomerService) Create(ctx context.Context, req models.CreateCustomerRequest) (*models.CustomerView, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.Required("name", name); err != nil {
		return nil, err
	}
	c := &models.Customer{
		Name:  name,
		Email: optional(strings.TrimSpace(req.Email)),
		Phone: optional(strings.TrimSpace(req.Phone)),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apperrors.Wrap(err, "failed to create customer")
	}

	view := adapters.CustomerView(*c)
	s.index(ctx, view)
	logger.WithContext(ctx).Info("Customer created", "customer_id", c.ID)
	return &view, nil
}

func (s *CustomerService) Update(ctx context.Context, id int64, req models.UpdateCustomerRequest) (*models.CustomerView, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validation.Required("name", name); err != nil {
			return nil, err
		}
		req.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		req.Phone = &phone
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		return nil, apperrors.Validation("no fields to update")
	}

	c, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to update customer")
	}
	if c == nil {
		return nil, apperrors.NotFound("customer not found")
	}

	view := adapters.CustomerView(*c)
	s.index(ctx, view)
	return &view, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) (*models.SuccessResponse, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to delete customer")
	}
	if !deleted {
		return nil, apperrors.NotFound("customer not found")
	}

	if s.searcher != nil {
		docID := models.SourceCustomer + ":" + strconv.FormatInt(id, 10)
		if err := s.searcher.DeleteCustomer(ctx, docID); err != nil {
			logger.WithContext(ctx).Error("Failed to remove customer from search index",
				"error", err,
				"customer_id", id)
		}
	}
	return &models.SuccessResponse{Success: true}, nil
}

// SearchCustomers queries the search index, falling back to a substring match
// over the merged directory when the index is absent or failing.
func (s *CustomerService) SearchCustomers(ctx context.Context, query string) ([]models.CustomerView, error) {
	query = strings.TrimSpace(query)
	if s.searcher != nil {
		found, err := s.searcher.Search(ctx, query, defaultSearchSize)
		if err == nil {
			return found, nil
		}
		logger.WithContext(ctx).Warn("Customer search index unavailable, filtering directory",
			"error", err)
	}

	all, err := s.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCustomers(all, query), nil
}

// FilterCustomers keeps entries whose name, email or phone contain q, ignoring case
func FilterCustomers(customers []models.CustomerView, q string) []models.CustomerView {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return customers
	}
	matched := []models.CustomerView{}
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(c.Phone, q) {
			matched = append(matched, c)
		}
	}
	return matched
}

// IndexCustomerByID refreshes one admin-entered customer in the search index
func (s *CustomerService) IndexCustomerByID(ctx context.Context, id int64) error {
	if s.searcher == nil {
		return nil
	}
	view, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.searcher.IndexCustomer(ctx, *view); err != nil {
		return apperrors.Wrap(err, "failed to index customer")
	}
	return nil
}

// Reindex pushes the whole merged directory to the search index
func (s *CustomerService) Reindex(ctx context.Context) (int, error) {
	if s.searcher == nil {
		return 0, nil
	}
	all, err := s.GetCustomers(ctx)
	if err != nil {
		return 0, err
	}
	for i, c := range all {
		if err := s.searcher.IndexCustomer(ctx, c); err != nil {
			return i, apperrors.Wrap(err, "failed to index customer")
		}
	}
	return len(all), nil
}

func (s *CustomerService) index(ctx context.Context, view models.CustomerView) {
	if s.searcher == nil {
		return
	}
	if err := s.searcher.IndexCustomer(ctx, view); err != nil {
		logger.WithContext(ctx).Error("Failed to index customer",
			"error", err,
			"customer_id", view.ID)
	}
}
