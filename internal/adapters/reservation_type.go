// Package adapters maps backend rows (snake_case) to the view models served
// to the UI (camelCase) and back. All functions are pure.
package adapters

import (
	"time"

	"github.com/eugenek0529/reservation-system/internal/models"
)

// ReservationTypeToRow converts a normalized creation form into a reservation_type row
func ReservationTypeToRow(req models.CreateReservationTypeRequest) models.ReservationTypeRow {
	description := req.Description
	return models.ReservationTypeRow{
		Name:           req.Name,
		Description:    &description,
		IsActive:       req.IsActive,
		PricePerPerson: req.PricePerPerson,
	}
}

// ReservationTypeFromRow converts a reservation_type row into its view model
func ReservationTypeFromRow(row models.ReservationTypeRow) models.ReservationType {
	rt := models.ReservationType{
		ID:             row.ID,
		Name:           row.Name,
		IsActive:       row.IsActive,
		PricePerPerson: row.PricePerPerson,
	}
	if row.Description != nil {
		rt.Description = *row.Description
	}
	if !row.CreatedAt.IsZero() {
		rt.CreatedAt = row.CreatedAt.UTC().Format(time.RFC3339)
	}
	return rt
}

func ReservationTypesFromRows(rows []models.ReservationTypeRow) []models.ReservationType {
	types := make([]models.ReservationType, len(rows))
	for i, row := range rows {
		types[i] = ReservationTypeFromRow(row)
	}
	return types
}
