package schedule

import (
	"fmt"
	"sort"

	"github.com/eugenek0529/reservation-system/internal/models"
)

// Timeline cell types
const (
	CellReserved = "reserved"
	CellPending  = "pending"
	CellOpen     = "open"
)

// ListItem is one reservation of the daily list view
type ListItem struct {
	ID                int64  `json:"id"`
	GuestName         string `json:"guestName"`
	GuestCount        int    `json:"guestCount"`
	Status            string `json:"status"`
	Note              string `json:"note"`
	ReservationTime   string `json:"reservationTime"`
	ReservationType   string `json:"reservationType"`
	ReservationSlotID int64  `json:"reservationSlotId"`
}

// DailyList is the flat, time sorted list of a day's reservations
type DailyList struct {
	Reservations []ListItem `json:"reservations"`
	Total        int        `json:"total"`
	Confirmed    int        `json:"confirmed"`
	Pending      int        `json:"pending"`
}

// FlattenSchedule lists every reservation of the schedule with the start time
// of its slot. Sorting is stable and lexicographic on zero-padded HH:MM.
func FlattenSchedule(slots []models.ScheduleSlot) DailyList {
	items := []ListItem{}
	for _, slot := range slots {
		for _, r := range slot.Reservations {
			items = append(items, ListItem{
				ID:                r.ID,
				GuestName:         r.GuestName,
				GuestCount:        r.GuestCount,
				Status:            r.Status,
				Note:              r.SpecialRequirements,
				ReservationTime:   slot.StartTime,
				ReservationType:   slot.ReservationTypeName,
				ReservationSlotID: slot.ReservationSlotID,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ReservationTime < items[j].ReservationTime
	})

	list := DailyList{Reservations: items, Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.StatusConfirmed:
			list.Confirmed++
		case models.StatusPending:
			list.Pending++
		}
	}
	return list
}

// Cell is one box of a timeline column
type Cell struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// TimelineColumn is one slot of the timeline view
type TimelineColumn struct {
	Key           int64  `json:"key"`
	Label         string `json:"label"`
	TypeName      string `json:"typeName"`
	ReservedCount int    `json:"reservedCount"`
	PendingCount  int    `json:"pendingCount"`
	Max           int    `json:"max"`
	Current       int    `json:"current"`
	Stack         []Cell `json:"stack"`
}

// BuildTimeline stacks the reservations of every slot, in order, followed by
// one open cell per remaining seat.
func BuildTimeline(slots []models.ScheduleSlot) []TimelineColumn {
	columns := make([]TimelineColumn, 0, len(slots))
	for _, slot := range slots {
		open := models.RemainingCapacity(slot.MaxCapacity, slot.CurrentCapacity)
		col := TimelineColumn{
			Key:      slot.ReservationSlotID,
			Label:    slot.StartTime,
			TypeName: slot.ReservationTypeName,
			Max:      slot.MaxCapacity,
			Current:  slot.CurrentCapacity,
			Stack:    make([]Cell, 0, len(slot.Reservations)+open),
		}

		for _, r := range slot.Reservations {
			cellType := CellReserved
			switch r.Status {
			case models.StatusPending:
				cellType = CellPending
				col.PendingCount++
			case models.StatusReserved:
				col.ReservedCount++
			}
			col.Stack = append(col.Stack, Cell{
				ID:    fmt.Sprintf("%d", r.ID),
				Type:  cellType,
				Label: fmt.Sprintf("%d", r.GuestCount),
				Title: fmt.Sprintf("%s • %d guests • %s", r.GuestName, r.GuestCount, slot.StartTime),
			})
		}

		for i := 0; i < open; i++ {
			col.Stack = append(col.Stack, Cell{
				ID:    fmt.Sprintf("open-%d-%d", slot.ReservationSlotID, i),
				Type:  CellOpen,
				Label: "+",
				Title: "Open spot",
			})
		}
		columns = append(columns, col)
	}
	return columns
}
