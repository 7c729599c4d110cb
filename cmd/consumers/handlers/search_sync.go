package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/eugenek0529/reservation-system/internal/models"
)

// CustomerIndexer refreshes one customer in the search index. *service.CustomerService implements it.
type CustomerIndexer interface {
	IndexCustomerByID(ctx context.Context, id int64) error
}

// SearchSyncHandler indexes customers created by the booking flow
type SearchSyncHandler struct {
	customers CustomerIndexer
}

func NewSearchSyncHandler(customers CustomerIndexer) *SearchSyncHandler {
	return &SearchSyncHandler{customers: customers}
}

// ProcessReservationCreated indexes the walk-in customer of a reservation.
// Reservations of registered users carry no customer id and are skipped.
func (h *SearchSyncHandler) ProcessReservationCreated(ctx context.Context, data []byte) error {
	var event models.ReservationCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to unmarshal reservation created event: %w", err)
	}
	if event.CustomerID == nil {
		return nil
	}

	if err := h.customers.IndexCustomerByID(ctx, *event.CustomerID); err != nil {
		return fmt.Errorf("failed to sync customer %d: %w", *event.CustomerID, err)
	}

	slog.Debug("Customer synced to search index", "customer_id", *event.CustomerID)
	return nil
}
