package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jgoulah/fleetdash/internal/logging"
	"github.com/jgoulah/fleetdash/internal/report"
	"github.com/jgoulah/fleetdash/pkg/models"
)

type stubSource struct {
	hours []models.HoursRow
	fuel  []models.FuelRow
	err   error
	loads int
}

func (s *stubSource) LoadHours(context.Context) ([]models.HoursRow, error) {
	s.loads++
	return s.hours, s.err
}

func (s *stubSource) LoadFuel(context.Context) ([]models.FuelRow, error) {
	return s.fuel, s.err
}

func fleet() *stubSource {
	return &stubSource{
		hours: []models.HoursRow{
			{Machine: "M1", Date: "10/01/2024", Operator: "OpA", MeterStart: "100", MeterEnd: "108", HoursWorked: "8"},
			{Machine: "M2", Date: "15/02/2024", Operator: "OpB", MeterStart: "0", MeterEnd: "5", HoursWorked: "5"},
		},
		fuel: []models.FuelRow{
			{Machine: "M1", Date: "10/01/2024", Liters: "50", Supplier: "SupA", Site: "SiteX"},
		},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, New(fleet(), 6), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestReportDefaults(t *testing.T) {
	src := fleet()
	srv := New(src, 6)

	rec := get(t, srv, "/api/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(rep.Machines) != 2 {
		t.Fatalf("machines = %+v, want 2", rep.Machines)
	}
	if rep.KPIs.TotalHours != 13 || rep.KPIs.TotalCost != 300 {
		t.Errorf("kpis = %+v", rep.KPIs)
	}

	get(t, srv, "/api/report")
	if src.loads != 2 {
		t.Errorf("source loaded %d times, want once per request", src.loads)
	}
}

func TestReportFilters(t *testing.T) {
	rec := get(t, New(fleet(), 6), "/api/report?start=2024-01-01&end=31/01/2024&machine=M1&unit_cost=12.5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(rep.Machines) != 1 || rep.Machines[0].Machine != "M1" {
		t.Fatalf("machines = %+v, want only M1", rep.Machines)
	}
	if rep.Machines[0].TotalCost != 625 {
		t.Errorf("M1 cost = %v, want 625", rep.Machines[0].TotalCost)
	}
	if rep.UnitCost != 12.5 || rep.Machine != "M1" {
		t.Errorf("unit cost %v machine %q", rep.UnitCost, rep.Machine)
	}
}

func TestReportBadInput(t *testing.T) {
	srv := New(fleet(), 6)
	tests := []struct {
		target string
		want   int
	}{
		{"/api/report?start=someday", http.StatusBadRequest},
		{"/api/report?unit_cost=cheap", http.StatusBadRequest},
		{"/api/report?strict=maybe", http.StatusBadRequest},
		{"/api/report?unit_cost=-1", http.StatusUnprocessableEntity},
		{"/api/report?unit_cost=NaN", http.StatusUnprocessableEntity},
		{"/api/report?unit_cost=Inf", http.StatusUnprocessableEntity},
		{"/api/report?unit_cost=-Inf", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		if rec := get(t, srv, tt.target); rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.target, rec.Code, tt.want)
		}
	}
}

func TestReportBadInputHasBody(t *testing.T) {
	rec := get(t, New(fleet(), 6), "/api/report?unit_cost=NaN")

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	if body["error"] != "invalid_input" {
		t.Errorf("error = %q, want invalid_input", body["error"])
	}
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	rec := httptest.NewRecorder()

	writeJSON(rec, req, http.StatusOK, map[string]float64{"cost": math.NaN()})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %q: %v", rec.Body.String(), err)
	}
	if body["error"] != "encode_error" {
		t.Errorf("error = %q, want encode_error", body["error"])
	}
}

func TestReportLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, false, slog.LevelDebug))
	t.Cleanup(func() { slog.SetDefault(prev) })

	src := fleet()
	src.fuel = append(src.fuel, models.FuelRow{Machine: "M1", Date: "10/01/2024", Liters: "x"})

	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	New(src, 6).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	for _, msg := range []string{"report.defaulted_values", "report.built", "http.request"} {
		line := ""
		for _, l := range strings.Split(buf.String(), "\n") {
			if strings.Contains(l, "msg="+msg) {
				line = l
				break
			}
		}
		if line == "" {
			t.Errorf("no %s line in log:\n%s", msg, buf.String())
			continue
		}
		if !strings.Contains(line, "request_id=req-42") {
			t.Errorf("%s line missing request_id: %s", msg, line)
		}
	}
}

func TestReportStrict(t *testing.T) {
	src := fleet()
	src.fuel = append(src.fuel, models.FuelRow{Machine: "M1", Date: "?", Liters: "x"})
	srv := New(src, 6)

	if rec := get(t, srv, "/api/report"); rec.Code != http.StatusOK {
		t.Errorf("default mode status = %d, want 200", rec.Code)
	}
	if rec := get(t, srv, "/api/report?strict=true"); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("strict mode status = %d, want 422", rec.Code)
	}
}

func TestReportNoData(t *testing.T) {
	rec := get(t, New(&stubSource{}, 6), "/api/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body["empty"] != true {
		t.Errorf("body = %v, want empty=true", body)
	}
}

func TestReportLoadError(t *testing.T) {
	rec := get(t, New(&stubSource{err: errors.New("permission denied")}, 6), "/api/report")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestMachines(t *testing.T) {
	rec := get(t, New(fleet(), 6), "/api/machines")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cat report.Catalog
	if err := json.Unmarshal(rec.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(cat.Machines) != 2 || cat.Machines[0] != "M1" || cat.Machines[1] != "M2" {
		t.Errorf("machines = %v", cat.Machines)
	}
	if cat.First == nil || cat.First.Format("2006-01-02") != "2024-01-10" {
		t.Errorf("first = %v", cat.First)
	}
	if cat.Last == nil || cat.Last.Format("2006-01-02") != "2024-02-15" {
		t.Errorf("last = %v", cat.Last)
	}

	rec = get(t, New(&stubSource{}, 6), "/api/machines")
	if rec.Code != http.StatusOK {
		t.Errorf("empty logs status = %d, want 200", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	New(fleet(), 6).ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}
