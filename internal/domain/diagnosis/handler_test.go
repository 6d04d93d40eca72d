package diagnosis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestCreateDiagnosisConflict(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	h := NewHandler(svc)
	e := echo.New()

	enc := uuid.New()
	existing := &Diagnosis{
		PatientID:      uuid.New(),
		EncounterID:    &enc,
		Term:           "a",
		Classification: ClassificationPrincipal,
		Verification:   "confirmed",
		ClinicalStatus: "active",
	}
	if err := repo.Create(context.Background(), existing); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := fmt.Sprintf(
		`{"patient_id":%q,"encounter_id":%q,"term":"b","classification":"principal"}`,
		uuid.New(), enc)
	req := httptest.NewRequest(http.MethodPost, "/diagnoses", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateDiagnosis(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", httpErr.Code)
	}
	msg, _ := httpErr.Message.(string)
	if !strings.Contains(msg, "principal") {
		t.Errorf("expected stable principal message, got %q", msg)
	}
}

func TestCreateDiagnosisBadBody(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/diagnoses", strings.NewReader(`{"term":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateDiagnosis(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}
