package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eugenek0529/reservation-system/internal/middleware"
	"github.com/eugenek0529/reservation-system/internal/models"
	"github.com/eugenek0529/reservation-system/internal/schedule"
	"github.com/eugenek0529/reservation-system/internal/validation"
)

// Public handlers

// ListAvailableSlots - GET /api/public/availability/slots?date=YYYY-MM-DD
func (h *Handlers) ListAvailableSlots(c *gin.Context) {
	date, ok := requireQuery(c, "date")
	if !ok {
		return
	}

	slots, err := h.services.Availability.GetAvailableSlots(c.Request.Context(), date)
	if err != nil {
		respondError(c, "list available slots", err)
		return
	}

	c.JSON(http.StatusOK, slots)
}

// CreatePublicReservation - POST /api/public/reservations
// Booking widget; status and user id are not accepted from anonymous callers.
func (h *Handlers) CreatePublicReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Status = ""
	req.UserID = nil

	response, err := h.services.Availability.CreateReservation(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create reservation", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Admin handlers

// MonthExists - GET /api/admin/availability/month-exists?month=YYYY-MM-01
func (h *Handlers) MonthExists(c *gin.Context) {
	month, ok := requireQuery(c, "month")
	if !ok {
		return
	}

	response, err := h.services.Availability.MonthExists(c.Request.Context(), month)
	if err != nil {
		respondError(c, "check month availability", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// SeedMonth - POST /api/admin/availability/seed
func (h *Handlers) SeedMonth(c *gin.Context) {
	var req models.SeedMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Availability.EnsureMonthAvailability(c.Request.Context(), req.Month)
	if err != nil {
		respondError(c, "seed month availability", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// MonthlyMetrics - GET /api/admin/metrics/monthly?month=YYYY-MM-01
// Returns the aggregated metrics keyed by date.
func (h *Handlers) MonthlyMetrics(c *gin.Context) {
	month, ok := requireQuery(c, "month")
	if !ok {
		return
	}
	if err := validation.MonthStart("month", month); err != nil {
		respondError(c, "fetch monthly metrics", err)
		return
	}

	metrics, err := h.loader.LoadMetrics(c.Request.Context(), month)
	if err != nil {
		respondError(c, "fetch monthly metrics", err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *Handlers) loadSchedule(c *gin.Context) ([]models.ScheduleSlot, bool) {
	date, ok := requireQuery(c, "date")
	if !ok {
		return nil, false
	}
	if err := validation.Date("date", date); err != nil {
		respondError(c, "fetch daily schedule", err)
		return nil, false
	}

	slots, err := h.loader.LoadSchedule(c.Request.Context(), date)
	if err != nil {
		respondError(c, "fetch daily schedule", err)
		return nil, false
	}
	return slots, true
}

// DailySchedule - GET /api/admin/schedule/daily?date=YYYY-MM-DD
func (h *Handlers) DailySchedule(c *gin.Context) {
	slots, ok := h.loadSchedule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, slots)
}

// DailyScheduleList - GET /api/admin/schedule/daily/list?date=YYYY-MM-DD
func (h *Handlers) DailyScheduleList(c *gin.Context) {
	slots, ok := h.loadSchedule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schedule.FlattenSchedule(slots))
}

// DailyScheduleTimeline - GET /api/admin/schedule/daily/timeline?date=YYYY-MM-DD
func (h *Handlers) DailyScheduleTimeline(c *gin.Context) {
	slots, ok := h.loadSchedule(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, schedule.BuildTimeline(slots))
}

// DailyReservations - GET /api/admin/reservations/daily?date=YYYY-MM-DD
func (h *Handlers) DailyReservations(c *gin.Context) {
	date, ok := requireQuery(c, "date")
	if !ok {
		return
	}

	reservations, err := h.services.Availability.GetDailyReservations(c.Request.Context(), date)
	if err != nil {
		respondError(c, "fetch daily reservations", err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// CreateAdminReservation - POST /api/admin/reservations
func (h *Handlers) CreateAdminReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Availability.CreateReservation(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "create reservation", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdateReservationStatus - PATCH /api/admin/reservations/:id/status
func (h *Handlers) UpdateReservationStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Availability.UpdateReservationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, "update reservation status", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me - GET /api/admin/me
func (h *Handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userId": c.GetString(middleware.UserIDKey),
		"role":   c.GetString(middleware.RoleKey),
	})
}
