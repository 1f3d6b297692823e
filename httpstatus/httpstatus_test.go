package httpstatus_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jpl-firestep/firestep/controller"
	"github.com/jpl-firestep/firestep/gpio"
	"github.com/jpl-firestep/firestep/httpstatus"
	"github.com/jpl-firestep/firestep/machine"
)

func newTestStatus(t *testing.T) *httpstatus.Status {
	t.Helper()
	pins := gpio.NewSim()
	m := machine.New(pins)
	m.SetMotorAxis(0, machine.AxisX)
	m.Axes[machine.AxisX].Enable(pins, true)
	m.Axes[machine.AxisX].Position = 42
	ctl := controller.New(m)
	return httpstatus.New(ctl)
}

func TestSysRouteReportsThreadClock(t *testing.T) {
	s := newTestStatus(t)
	req := httptest.NewRequest(http.MethodGet, "/sys", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["threadClock"]; !ok {
		t.Fatalf("missing threadClock: %v", body)
	}
}

func TestAxisRouteReportsPosition(t *testing.T) {
	s := newTestStatus(t)
	req := httptest.NewRequest(http.MethodGet, "/axis/x", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["position"].(float64) != 42 {
		t.Fatalf("position = %v, want 42", body["position"])
	}
	if body["enabled"] != true {
		t.Fatalf("enabled = %v, want true", body["enabled"])
	}
}

func TestAxisRouteRejectsUnknownAxis(t *testing.T) {
	s := newTestStatus(t)
	req := httptest.NewRequest(http.MethodGet, "/axis/q", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestLockedStatusRejectsSysButNotLock(t *testing.T) {
	s := newTestStatus(t)
	s.Locker.Lock()

	req := httptest.NewRequest(http.MethodGet, "/sys", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusLocked {
		t.Fatalf("/sys status = %d, want %d", w.Code, http.StatusLocked)
	}

	req = httptest.NewRequest(http.MethodGet, "/lock", nil)
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("/lock status = %d, want 200", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["bool"] != true {
		t.Fatalf("bool = %v, want true", body["bool"])
	}
}

func TestMotorRouteReportsMappedAxis(t *testing.T) {
	s := newTestStatus(t)
	req := httptest.NewRequest(http.MethodGet, "/motor/1", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["axis"] != "x" {
		t.Fatalf("axis = %v, want x", body["axis"])
	}
}
