package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pallicare/pallicare/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/settings/patient-form", h.GetPatientForm, auth.RequireRole("admin", "physician", "nurse"))
	api.PUT("/settings/patient-form", h.PutPatientForm, auth.RequireRole("admin"))
}

func (h *Handler) GetPatientForm(c echo.Context) error {
	cfg, err := h.svc.GetPatientForm(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) PutPatientForm(c echo.Context) error {
	var patch PatientFormSettings
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	merged, err := h.svc.PutPatientForm(c.Request().Context(), patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, merged)
}
