package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/apperror"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// AlertRequest is the body of POST /alerts. Presence and length of the text
// fields are checked by the alert service so all problems are reported at once.
type AlertRequest struct {
	ResidentID   string     `json:"residentId"`
	ResidentName string     `json:"residentName"`
	Message      string     `json:"message"`
	Timestamp    *time.Time `json:"timestamp"`
}

// AlertHandler serves emergency alerts and the dashboard
type AlertHandler struct {
	alerts *service.AlertService
}

// NewAlertHandler creates an alert handler
func NewAlertHandler(alerts *service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Create handles POST /alerts
func (h *AlertHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req AlertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	alert, err := h.alerts.Create(c.Request().Context(), service.CreateAlertInput{
		ResidentID:   req.ResidentID,
		ResidentName: req.ResidentName,
		Message:      req.Message,
		Timestamp:    req.Timestamp,
	})
	if err != nil {
		return err
	}

	log.Info("Emergency alert created",
		zap.String("alert_id", alert.ID),
		zap.String("resident_id", alert.ResidentID))
	return c.JSON(http.StatusCreated, alert)
}

// Recent handles GET /alerts?residentId=
func (h *AlertHandler) Recent(c echo.Context) error {
	alerts, err := h.alerts.Recent(c.Request().Context(), c.QueryParam("residentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alerts)
}

// Delete handles DELETE /alerts/:id
func (h *AlertHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.alerts.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	logger.FromContext(c).Info("Emergency alert deleted", zap.String("alert_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Emergency alert deleted successfully"})
}

// CountByMonth handles GET /alerts/count-by-month?year=
func (h *AlertHandler) CountByMonth(c echo.Context) error {
	year := h.alerts.CurrentYear()
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperror.Validation("Invalid year", map[string]string{"year": "year must be a number"})
		}
		year = parsed
	}

	counts, err := h.alerts.CountByMonth(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts[:])
}

// DashboardSummary handles GET /dashboard/summary
func (h *AlertHandler) DashboardSummary(c echo.Context) error {
	summary, err := h.alerts.DashboardSummary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
