package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/xxiimcha/lifeec-mobile/internal/service"
	"github.com/xxiimcha/lifeec-mobile/pkg/logger"
	"go.uber.org/zap"
)

// ResidentRequest is the body of POST /residents and PUT /residents/:id
type ResidentRequest struct {
	Name             string `json:"name" validate:"max=100"`
	Age              int    `json:"age" validate:"gte=0"`
	Gender           string `json:"gender" validate:"max=20"`
	Contact          string `json:"contact" validate:"max=50"`
	EmergencyContact struct {
		Name  string `json:"name" validate:"max=100"`
		Phone string `json:"phone" validate:"max=30"`
	} `json:"emergencyContact"`
}

func (r ResidentRequest) input() service.ResidentInput {
	return service.ResidentInput{
		Name:                  r.Name,
		Age:                   r.Age,
		Gender:                r.Gender,
		Contact:               r.Contact,
		EmergencyContactName:  r.EmergencyContact.Name,
		EmergencyContactPhone: r.EmergencyContact.Phone,
	}
}

// ResidentHandler serves resident records
type ResidentHandler struct {
	residents *service.ResidentService
}

// NewResidentHandler creates a resident handler
func NewResidentHandler(residents *service.ResidentService) *ResidentHandler {
	return &ResidentHandler{residents: residents}
}

// Upload handles POST /residents
func (h *ResidentHandler) Upload(c echo.Context) error {
	var req ResidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resident, err := h.residents.Upload(c.Request().Context(), req.input())
	if err != nil {
		return err
	}

	logger.FromContext(c).Info("Resident uploaded", zap.String("resident_id", resident.ID))
	return c.JSON(http.StatusCreated, resident)
}

// List handles GET /residents
func (h *ResidentHandler) List(c echo.Context) error {
	residents, err := h.residents.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, residents)
}

// Get handles GET /residents/:id
func (h *ResidentHandler) Get(c echo.Context) error {
	resident, err := h.residents.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resident)
}

// Update handles PUT /residents/:id
func (h *ResidentHandler) Update(c echo.Context) error {
	var req ResidentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resident, err := h.residents.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}

	logger.FromContext(c).Info("Resident updated", zap.String("resident_id", resident.ID))
	return c.JSON(http.StatusOK, resident)
}

// Delete handles DELETE /residents/:id
func (h *ResidentHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.residents.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	logger.FromContext(c).Info("Resident deleted", zap.String("resident_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Resident deleted"})
}
