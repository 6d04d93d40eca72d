package document

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pallicare/pallicare/internal/platform/auth"
	"github.com/pallicare/pallicare/internal/platform/blobstore"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	readGroup.GET("/patients/:patientId/documents", h.ListByPatient)
	readGroup.GET("/templates", h.ListTemplates)
	readGroup.GET("/documents/:id", h.GetDocument)
	readGroup.GET("/documents/:id/url", h.SignedURL)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	writeGroup.POST("/patients/:patientId/documents", h.UploadPatientDocument)
	writeGroup.POST("/templates", h.UploadTemplate)
	writeGroup.DELETE("/documents/:id", h.DeleteDocument)
}

func (h *Handler) upload(c echo.Context, in UploadInput) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer src.Close()

	if in.Filename == "" {
		in.Filename = fileHeader.Filename
	}
	if in.ContentType == "" {
		in.ContentType = fileHeader.Header.Get("Content-Type")
	}

	d, err := h.svc.Upload(c.Request().Context(), in, src)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrObjectExists):
			return echo.NewHTTPError(http.StatusConflict, "document already exists, set upsert to replace")
		case errors.Is(err, blobstore.ErrFileTooLarge):
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) UploadPatientDocument(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	return h.upload(c, UploadInput{
		PatientID:   &patientID,
		Scope:       ScopePatient,
		TypeKey:     c.FormValue("type_key"),
		Filename:    c.FormValue("filename"),
		ContentType: c.FormValue("content_type"),
		Upsert:      c.FormValue("upsert") == "true",
	})
}

func (h *Handler) UploadTemplate(c echo.Context) error {
	return h.upload(c, UploadInput{
		Scope:       ScopeTemplate,
		TypeKey:     c.FormValue("type_key"),
		Filename:    c.FormValue("filename"),
		ContentType: c.FormValue("content_type"),
		Upsert:      c.FormValue("upsert") == "true",
	})
}

func (h *Handler) GetDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	docs, err := h.svc.ListByPatient(c.Request().Context(), patientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) ListTemplates(c echo.Context) error {
	docs, err := h.svc.ListTemplates(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, docs)
}

func (h *Handler) SignedURL(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	url, err := h.svc.SignedURL(c.Request().Context(), id, c.QueryParam("download"))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, blobstore.ErrObjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) DeleteDocument(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "document not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
