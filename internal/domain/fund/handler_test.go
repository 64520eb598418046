package fund

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	return h, e
}

func TestHandler_CreateFund(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Mazowiecki OW","identifier":"07","email":"mazowsze@example.org"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/funds", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateFund(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var f NationalHealthFund
	json.Unmarshal(rec.Body.Bytes(), &f)
	if f.Name != "Mazowiecki OW" {
		t.Errorf("expected 'Mazowiecki OW', got %s", f.Name)
	}
}

func TestHandler_CreateFund_BadRequest(t *testing.T) {
	h, e := newTestHandler()

	body := `{"identifier":"07"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/funds", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateFund(c); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestHandler_GetFund(t *testing.T) {
	h, e := newTestHandler()

	f := &NationalHealthFund{Name: "Mazowiecki OW", Identifier: "07"}
	h.svc.CreateFund(nil, f)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	err := h.GetFund(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetFund_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.GetFund(c); err == nil {
		t.Error("expected error for not found")
	}
}

func TestHandler_GetFund_InvalidID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.GetFund(c); err == nil {
		t.Error("expected error for invalid id")
	}
}

func TestHandler_DeleteFund(t *testing.T) {
	h, e := newTestHandler()

	f := &NationalHealthFund{Name: "ToDelete", Identifier: "99"}
	h.svc.CreateFund(nil, f)

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	err := h.DeleteFund(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_ListFunds(t *testing.T) {
	h, e := newTestHandler()

	h.svc.CreateFund(nil, &NationalHealthFund{Name: "Fund A", Identifier: "01"})
	h.svc.CreateFund(nil, &NationalHealthFund{Name: "Fund B", Identifier: "02"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/funds", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.ListFunds(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
}

func TestHandler_CreateHospital(t *testing.T) {
	h, e := newTestHandler()

	f := &NationalHealthFund{Name: "Mazowiecki OW", Identifier: "07"}
	h.svc.CreateFund(nil, f)

	body := `{"name":"Szpital Wolski","health_fund_id":"` + f.ID.String() + `","city":"Warszawa"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.CreateHospital(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_CreateHospital_UnknownFund(t *testing.T) {
	h, e := newTestHandler()

	body := `{"name":"Szpital Wolski","health_fund_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hospitals", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateHospital(c); err == nil {
		t.Error("expected error for unknown fund")
	}
}

func TestHandler_ListFundHospitals(t *testing.T) {
	h, e := newTestHandler()

	f := &NationalHealthFund{Name: "Mazowiecki OW", Identifier: "07"}
	h.svc.CreateFund(nil, f)
	h.svc.CreateHospital(nil, &Hospital{Name: "Szpital A", HealthFundID: f.ID})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(f.ID.String())

	err := h.ListFundHospitals(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var hospitals []*Hospital
	json.Unmarshal(rec.Body.Bytes(), &hospitals)
	if len(hospitals) != 1 {
		t.Errorf("expected 1 hospital, got %d", len(hospitals))
	}
}
