package adapters

import (
	"github.com/eugenek0529/reservation-system/internal/models"
)

const unknownGuest = "Unknown"

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// ScheduleFromRows converts the get_daily_schedule payload into schedule slots.
// A nil input yields an empty, non-nil schedule.
func ScheduleFromRows(rows []models.ScheduleSlotRow) []models.ScheduleSlot {
	schedule := make([]models.ScheduleSlot, 0, len(rows))
	for _, row := range rows {
		slot := models.ScheduleSlot{
			ReservationSlotID:   row.ReservationSlotID,
			StartTime:           row.StartTime,
			EndTime:             row.EndTime,
			ReservationTypeName: row.ReservationTypeName,
			MaxCapacity:         row.MaxCapacity,
			CurrentCapacity:     row.CurrentCapacity,
			Reservations:        make([]models.ScheduleReservation, 0, len(row.Reservations)),
		}
		for _, r := range row.Reservations {
			slot.Reservations = append(slot.Reservations, models.ScheduleReservation{
				ID:                  r.ID,
				GuestName:           deref(r.GuestName, unknownGuest),
				GuestCount:          r.GuestCount,
				Status:              deref(r.Status, models.StatusReserved),
				SpecialRequirements: deref(r.SpecialRequirements, ""),
			})
		}
		schedule = append(schedule, slot)
	}
	return schedule
}

// ReservationFromRow converts a flat daily reservation row. Self-registered
// guest names win over admin-entered ones.
func ReservationFromRow(row models.DailyReservationRow) models.ReservationView {
	guestName := deref(row.UserProfileName, "")
	if guestName == "" {
		guestName = deref(row.CustomerName, unknownGuest)
	}
	return models.ReservationView{
		ID:              row.ID,
		GuestName:       guestName,
		GuestCount:      row.GuestCount,
		Note:            deref(row.SpecialRequirements, ""),
		ReservationTime: deref(row.StartTime, ""),
		Status:          deref(row.Status, models.StatusPending),
		ReservationType: deref(row.ReservationTypeName, "Unknown"),
	}
}

func ReservationsFromRows(rows []models.DailyReservationRow) []models.ReservationView {
	views := make([]models.ReservationView, len(rows))
	for i, row := range rows {
		views[i] = ReservationFromRow(row)
	}
	return views
}

// AvailableSlotFromRow computes the bookable seats of an availability row
func AvailableSlotFromRow(row models.SlotAvailabilityRow) models.AvailableSlot {
	return models.AvailableSlot{
		AvailabilityID:      row.AvailabilityID,
		ReservationSlotID:   row.ReservationSlotID,
		Date:                row.AvailableDate,
		StartTime:           row.StartTime,
		EndTime:             row.EndTime,
		ReservationTypeName: row.ReservationTypeName,
		MaxCapacity:         row.MaxCapacity,
		CurrentCapacity:     row.CurrentCapacity,
		AvailableCapacity:   models.RemainingCapacity(row.MaxCapacity, row.CurrentCapacity),
		PricePerPerson:      row.PricePerPerson,
	}
}

// AvailableSlotsFromRows keeps active slots only
func AvailableSlotsFromRows(rows []models.SlotAvailabilityRow) []models.AvailableSlot {
	slots := make([]models.AvailableSlot, 0, len(rows))
	for _, row := range rows {
		if !row.IsActive {
			continue
		}
		slots = append(slots, AvailableSlotFromRow(row))
	}
	return slots
}
