package participant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestHandler_GetProgress(t *testing.T) {
	svc, repo, hospitals, surveys := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	fundID := uuid.New()
	surveyID := uuid.New()
	hospitals.counts[fundID] = 2
	surveys.counts[surveyID] = 5

	p := &Participant{HealthFundID: fundID, SurveyID: surveyID}
	svc.Create(nil, p)
	repo.participants[p.ID].AnswerCount = 3

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.GetProgress(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Defined  bool     `json:"defined"`
		Progress *float64 `json:"progress"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Defined {
		t.Error("expected defined progress")
	}
	if resp.Progress == nil || *resp.Progress != 30.0 {
		t.Errorf("expected progress 30.0, got %v", resp.Progress)
	}
}

func TestHandler_GetProgress_Undefined(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	// Fund with zero hospitals: denominator is zero.
	p := &Participant{HealthFundID: uuid.New(), SurveyID: uuid.New()}
	svc.Create(nil, p)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.GetProgress(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Defined  bool     `json:"defined"`
		Progress *float64 `json:"progress"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Defined {
		t.Error("expected undefined progress")
	}
	if resp.Progress != nil {
		t.Errorf("expected null progress, got %v", *resp.Progress)
	}
}

func TestHandler_Create(t *testing.T) {
	svc, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	body := `{"health_fund_id":"` + uuid.NewString() + `","survey_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/participants", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var p Participant
	json.Unmarshal(rec.Body.Bytes(), &p)
	if len(p.Password) != 5 {
		t.Errorf("expected generated 5-digit password, got %q", p.Password)
	}
}
