package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
	"github.com/eugenek0529/reservation-system/internal/metrics"
	"github.com/eugenek0529/reservation-system/internal/schedule"
	"github.com/eugenek0529/reservation-system/internal/service"
)

type Handlers struct {
	services *service.Services
	loader   *schedule.Loader
	metrics  *metrics.Metrics
}

func NewHandlers(services *service.Services, loader *schedule.Loader, m *metrics.Metrics) *Handlers {
	return &Handlers{
		services: services,
		loader:   loader,
		metrics:  m,
	}
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindCapacity:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

// respondError writes {error, code, details}. Provider messages are logged in
// full and kept in the response together with the backend code.
func respondError(c *gin.Context, action string, err error) {
	status := StatusFor(err)
	body := gin.H{"error": err.Error()}

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		body["error"] = appErr.Message
		if appErr.Code != "" {
			body["code"] = appErr.Code
		}
		if appErr.Details != "" {
			body["details"] = appErr.Details
		}
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Failed to "+action, "error", err)
	} else {
		slog.Info("Rejected request to "+action, "error", err, "status", status)
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func requireQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return "", false
	}
	return v, true
}
