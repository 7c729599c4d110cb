package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eugenek0529/reservation-system/internal/models"
)

// ListReservationTypes - GET /api/admin/reservation-types
func (h *Handlers) ListReservationTypes(c *gin.Context) {
	types, err := h.services.ReservationTypes.List(c.Request.Context())
	if err != nil {
		respondError(c, "list reservation types", err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateReservationType - POST /api/admin/reservation-types
func (h *Handlers) CreateReservationType(c *gin.Context) {
	var req models.CreateReservationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt, err := h.services.ReservationTypes.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "create reservation type", err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// CreateReservationTypeWithSchedule - POST /api/admin/reservation-types/with-schedule
func (h *Handlers) CreateReservationTypeWithSchedule(c *gin.Context) {
	var req models.CreateReservationTypeWithScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.ReservationTypes.CreateWithSchedule(c.Request.Context(), req)
	if err != nil {
		respondError(c, "create reservation type with schedule", err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// UpdateReservationType - PUT /api/admin/reservation-types/:id
func (h *Handlers) UpdateReservationType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req models.UpdateReservationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt, err := h.services.ReservationTypes.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "update reservation type", err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// DeleteReservationType - DELETE /api/admin/reservation-types/:id
func (h *Handlers) DeleteReservationType(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	response, err := h.services.ReservationTypes.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, "delete reservation type", err)
		return
	}
	c.JSON(http.StatusOK, response)
}
