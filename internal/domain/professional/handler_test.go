package professional

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestServer() (*echo.Echo, *Service) {
	svc := NewService(newMockRepo())
	e := echo.New()
	NewHandler(svc).RegisterRoutes(e.Group("/api/v1"))
	return e, svc
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateAndGet(t *testing.T) {
	e, _ := newTestServer()

	rec := doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 30}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var p Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to parse professional: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Fatal("expected an assigned ID")
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/professionals/"+p.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_Create_Invalid(t *testing.T) {
	e, _ := newTestServer()

	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"full_name":`},
		{"missing name", `{"default_slot_minutes": 30}`},
		{"zero slot duration", `{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 0}`},
	}
	for _, tt := range tests {
		rec := doJSON(e, http.MethodPost, "/api/v1/professionals", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, rec.Code)
		}
	}
}

func TestHandler_GetByID_Errors(t *testing.T) {
	e, _ := newTestServer()

	rec := doJSON(e, http.MethodGet, "/api/v1/professionals/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed ID, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/professionals/"+uuid.NewString(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown professional, got %d", rec.Code)
	}
}

func TestHandler_List(t *testing.T) {
	e, _ := newTestServer()
	doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 30}`)
	doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Paulo Lima", "default_slot_minutes": 45}`)

	rec := doJSON(e, http.MethodGet, "/api/v1/professionals", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []*Professional `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected 2 professionals, got %d", resp.Total)
	}
}

func TestHandler_Deactivate(t *testing.T) {
	e, _ := newTestServer()
	rec := doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 30}`)
	var p Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to parse professional: %v", err)
	}

	rec = doJSON(e, http.MethodDelete, "/api/v1/professionals/"+p.ID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestHandler_WeeklySlots(t *testing.T) {
	e, _ := newTestServer()
	rec := doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 30}`)
	var p Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to parse professional: %v", err)
	}

	body := `[
		{"weekday": 1, "enabled": true, "ranges": [{"start": "08:00", "end": "12:00"}]},
		{"weekday": 3, "enabled": true, "ranges": [{"start": "14:00", "end": "18:00"}]}
	]`
	rec = doJSON(e, http.MethodPut, "/api/v1/professionals/"+p.ID.String()+"/weekly-slots", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/professionals/"+p.ID.String()+"/weekly-slots", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var slots []*WeeklySlot
	if err := json.Unmarshal(rec.Body.Bytes(), &slots); err != nil {
		t.Fatalf("failed to parse slots: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("expected 2 weekly slots, got %d", len(slots))
	}
}

func TestHandler_WeeklySlots_InvertedRangeRejected(t *testing.T) {
	e, _ := newTestServer()
	rec := doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 30}`)
	var p Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to parse professional: %v", err)
	}

	body := `[{"weekday": 1, "enabled": true, "ranges": [{"start": "12:00", "end": "08:00"}]}]`
	rec = doJSON(e, http.MethodPut, "/api/v1/professionals/"+p.ID.String()+"/weekly-slots", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for inverted range, got %d", rec.Code)
	}
}

func TestHandler_ScheduleBlocks(t *testing.T) {
	e, _ := newTestServer()
	rec := doJSON(e, http.MethodPost, "/api/v1/professionals",
		`{"full_name": "Dr. Carla Mendes", "default_slot_minutes": 30}`)
	var p Professional
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to parse professional: %v", err)
	}

	body := `{
		"days": [1, 5],
		"start_time": "08:00",
		"end_time": "12:00",
		"slot_minutes": 45,
		"valid_from": "2026-06-01T00:00:00Z",
		"valid_to": "2026-08-31T00:00:00Z"
	}`
	rec = doJSON(e, http.MethodPost, "/api/v1/professionals/"+p.ID.String()+"/schedule-blocks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var b ScheduleBlock
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("failed to parse block: %v", err)
	}
	if b.ID == uuid.Nil || b.SlotMinutes == nil || *b.SlotMinutes != 45 {
		t.Errorf("unexpected block: %+v", b)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/professionals/"+p.ID.String()+"/schedule-blocks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodDelete, "/api/v1/schedule-blocks/"+b.ID.String(), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(e, http.MethodDelete, "/api/v1/schedule-blocks/"+b.ID.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}
