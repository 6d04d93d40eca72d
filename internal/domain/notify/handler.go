package notify

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pallicare/pallicare/internal/platform/auth"
	"github.com/pallicare/pallicare/pkg/pagination"
)

type Handler struct {
	digest *Digest
	repo   Repository
}

func NewHandler(digest *Digest, repo Repository) *Handler {
	return &Handler{digest: digest, repo: repo}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/notify/runs", h.ListRuns)
	readGroup.GET("/notify/runs/:id", h.GetRun)
	readGroup.GET("/notify/runs/:id/deliveries", h.GetDeliveries)

	writeGroup := api.Group("", auth.RequireRole("admin"))
	writeGroup.POST("/notify/digest", h.TriggerDigest)
}

// TriggerDigest runs the daily digest immediately, outside the schedule.
func (h *Handler) TriggerDigest(c echo.Context) error {
	run, err := h.digest.Run(c.Request().Context(), TriggerManual)
	if err != nil {
		if run != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, run)
}

func (h *Handler) ListRuns(c echo.Context) error {
	params := pagination.FromContext(c)
	runs, total, err := h.repo.ListRuns(c.Request().Context(), params.Limit, params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(runs, total, params.Limit, params.Offset))
}

func (h *Handler) GetRun(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	run, err := h.repo.GetRun(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "digest run not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, run)
}

func (h *Handler) GetDeliveries(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	deliveries, err := h.repo.GetDeliveries(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, deliveries)
}
