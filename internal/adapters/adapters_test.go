package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenek0529/reservation-system/internal/models"
)

func strPtr(s string) *string { return &s }

func TestReservationTypeRoundTrip(t *testing.T) {
	price := 25.5
	row := ReservationTypeToRow(models.CreateReservationTypeRequest{
		Name:           "Brunch",
		Description:    "Weekend brunch",
		IsActive:       true,
		PricePerPerson: &price,
	})
	row.ID = 7
	row.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	rt := ReservationTypeFromRow(row)

	assert.Equal(t, int64(7), rt.ID)
	assert.Equal(t, "Brunch", rt.Name)
	assert.Equal(t, "Weekend brunch", rt.Description)
	assert.True(t, rt.IsActive)
	assert.Equal(t, 25.5, *rt.PricePerPerson)
	assert.Equal(t, "2025-03-01T10:00:00Z", rt.CreatedAt)
}

func TestReservationTypeFromRowWithoutDescription(t *testing.T) {
	rt := ReservationTypeFromRow(models.ReservationTypeRow{ID: 1, Name: "Dinner"})

	assert.Empty(t, rt.Description)
	assert.Empty(t, rt.CreatedAt)
	assert.Nil(t, rt.PricePerPerson)
}

func TestScheduleFromRowsDefaults(t *testing.T) {
	rows := []models.ScheduleSlotRow{{
		ReservationSlotID: 3,
		StartTime:         "18:00",
		EndTime:           "20:00",
		MaxCapacity:       12,
		CurrentCapacity:   4,
		Reservations: []models.ScheduleReservationRow{
			{ID: 1, GuestCount: 2},
			{ID: 2, GuestName: strPtr("Ana"), GuestCount: 2, Status: strPtr("confirmed"), SpecialRequirements: strPtr("window")},
		},
	}}

	schedule := ScheduleFromRows(rows)

	require.Len(t, schedule, 1)
	require.Len(t, schedule[0].Reservations, 2)
	assert.Equal(t, "Unknown", schedule[0].Reservations[0].GuestName)
	assert.Equal(t, models.StatusReserved, schedule[0].Reservations[0].Status)
	assert.Empty(t, schedule[0].Reservations[0].SpecialRequirements)
	assert.Equal(t, "Ana", schedule[0].Reservations[1].GuestName)
	assert.Equal(t, "confirmed", schedule[0].Reservations[1].Status)
	assert.Equal(t, "window", schedule[0].Reservations[1].SpecialRequirements)
}

func TestScheduleFromRowsNil(t *testing.T) {
	schedule := ScheduleFromRows(nil)

	assert.NotNil(t, schedule)
	assert.Empty(t, schedule)
}

func TestReservationFromRowGuestName(t *testing.T) {
	tests := []struct {
		name     string
		row      models.DailyReservationRow
		expected string
	}{
		{"profile wins", models.DailyReservationRow{UserProfileName: strPtr("Profile"), CustomerName: strPtr("Walk-in")}, "Profile"},
		{"customer fallback", models.DailyReservationRow{CustomerName: strPtr("Walk-in")}, "Walk-in"},
		{"empty profile name", models.DailyReservationRow{UserProfileName: strPtr(""), CustomerName: strPtr("Walk-in")}, "Walk-in"},
		{"unknown", models.DailyReservationRow{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReservationFromRow(tt.row).GuestName)
		})
	}
}

func TestReservationFromRowDefaults(t *testing.T) {
	view := ReservationFromRow(models.DailyReservationRow{ID: 9, GuestCount: 3})

	assert.Equal(t, int64(9), view.ID)
	assert.Equal(t, 3, view.GuestCount)
	assert.Equal(t, models.StatusPending, view.Status)
	assert.Equal(t, "Unknown", view.ReservationType)
	assert.Empty(t, view.ReservationTime)
	assert.Empty(t, view.Note)
}

func TestAvailableSlotsFromRows(t *testing.T) {
	rows := []models.SlotAvailabilityRow{
		{AvailabilityID: 1, MaxCapacity: 10, CurrentCapacity: 4, IsActive: true, AvailableDate: "2025-03-01"},
		{AvailabilityID: 2, MaxCapacity: 10, CurrentCapacity: 2, IsActive: false},
		{AvailabilityID: 3, MaxCapacity: 10, CurrentCapacity: 12, IsActive: true},
	}

	slots := AvailableSlotsFromRows(rows)

	require.Len(t, slots, 2)
	assert.Equal(t, int64(1), slots[0].AvailabilityID)
	assert.Equal(t, 6, slots[0].AvailableCapacity)
	assert.Equal(t, "2025-03-01", slots[0].Date)
	assert.Equal(t, int64(3), slots[1].AvailabilityID)
	assert.Equal(t, 0, slots[1].AvailableCapacity)
}

func TestMergeCustomers(t *testing.T) {
	created := time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)
	profiles := []models.UserProfile{{ID: "u-1", Name: "Profile", Email: strPtr("p@example.com"), CreatedAt: created}}
	customers := []models.Customer{{ID: 42, Name: "Walk-in", Phone: strPtr("+100"), CreatedAt: created}}

	views := MergeCustomers(profiles, customers)

	require.Len(t, views, 2)
	assert.Equal(t, "u-1", views[0].ID)
	assert.Equal(t, models.SourceUserProfile, views[0].Source)
	assert.Equal(t, "p@example.com", views[0].Email)
	assert.Empty(t, views[0].Phone)
	assert.Equal(t, "Nov 2024", views[0].MemberSince)

	assert.Equal(t, "42", views[1].ID)
	assert.Equal(t, models.SourceCustomer, views[1].Source)
	assert.Equal(t, "+100", views[1].Phone)
	for _, v := range views {
		assert.Equal(t, 0, v.Visits)
		assert.Equal(t, "Never", v.LastVisit)
		assert.Equal(t, "New", v.Status)
	}
}
