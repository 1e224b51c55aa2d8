// Package api exposes the REST surface of the service.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/InsiderP/smart-energy/internal/aggregation"
	"github.com/InsiderP/smart-energy/internal/energy"
	"github.com/InsiderP/smart-energy/internal/export"
	"github.com/InsiderP/smart-energy/internal/observability/metrics"
	"github.com/InsiderP/smart-energy/internal/simulator"
)

// Handler serves the /api/energy endpoints.
type Handler struct {
	service *aggregation.Service
	budgets energy.BudgetRepository
	logger  *log.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *aggregation.Service, budgets energy.BudgetRepository, logger *log.Logger) *Handler {
	return &Handler{service: service, budgets: budgets, logger: logger}
}

// Dashboard handles GET /api/energy/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.DashboardSnapshot(r.Context(), time.Now().UTC())
	if err != nil {
		h.serveError(w, "dashboard", err)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

// Historical handles GET /api/energy/historical?start=...&end=...
func (h *Handler) Historical(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r, "start")
	if err != nil {
		h.serveError(w, "historical", err)
		return
	}
	end, err := parseTimeParam(r, "end")
	if err != nil {
		h.serveError(w, "historical", err)
		return
	}
	if end.Before(start) {
		h.serveError(w, "historical", energy.NewValidationError("end precedes start"))
		return
	}

	buckets, err := h.service.HistoricalConsumption(r.Context(), start, end)
	if err != nil {
		h.serveError(w, "historical", err)
		return
	}
	h.writeJSON(w, http.StatusOK, buckets)
}

// Readings handles GET /api/energy/readings?limit=N.
func (h *Handler) Readings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.serveError(w, "readings", energy.NewValidationError("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	readings, err := h.service.LatestReadings(r.Context(), limit)
	if err != nil {
		h.serveError(w, "readings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, readings)
}

// DeviceReadings handles GET /api/energy/devices/{deviceId}/readings.
func (h *Handler) DeviceReadings(w http.ResponseWriter, r *http.Request) {
	deviceID := mux.Vars(r)["deviceId"]
	readings, err := h.service.DeviceConsumption(r.Context(), deviceID)
	if err != nil {
		h.serveError(w, "device readings", err)
		return
	}
	h.writeJSON(w, http.StatusOK, readings)
}

// Realtime handles GET /api/energy/realtime.
func (h *Handler) Realtime(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, simulator.RealtimeSample(time.Now()))
}

// budgetRequest is the POST /api/energy/budget body.
type budgetRequest struct {
	Amount    float64 `json:"amount"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
}

// CreateBudget handles POST /api/energy/budget. Budget windows may not
// overlap; the conflict is rejected up front rather than resolved at
// read time.
func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.serveError(w, "create budget", energy.NewValidationError("malformed budget body"))
		return
	}

	budget, err := validateBudget(req)
	if err != nil {
		h.serveError(w, "create budget", err)
		return
	}

	overlaps, err := h.budgets.Overlaps(r.Context(), budget.StartDate, budget.EndDate)
	if err != nil {
		h.serveError(w, "create budget", energy.WrapStorage("budget overlap check", err))
		return
	}
	if overlaps {
		h.serveError(w, "create budget", energy.NewValidationError("budget window overlaps an existing budget"))
		return
	}

	if err := h.budgets.Insert(r.Context(), budget); err != nil {
		h.serveError(w, "create budget", energy.WrapStorage("insert budget", err))
		return
	}
	h.writeJSON(w, http.StatusCreated, budget)
}

// CurrentBudget handles GET /api/energy/budget.
func (h *Handler) CurrentBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := h.budgets.CurrentAt(r.Context(), time.Now().UTC())
	if err != nil {
		h.serveError(w, "current budget", energy.WrapStorage("current budget", err))
		return
	}
	if budget == nil {
		http.Error(w, "no current budget", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, budget)
}

// Export handles GET /api/energy/export?date=YYYY-MM-DD&format=xlsx|pdf.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		metrics.ExportRequest(format, metrics.ResultError)
		h.serveError(w, "export", energy.NewValidationError("unsupported format %q", format))
		return
	}

	day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		metrics.ExportRequest(format, metrics.ResultError)
		h.serveError(w, "export", energy.NewValidationError("invalid date %q", r.URL.Query().Get("date")))
		return
	}

	start, end := aggregation.DayBounds(day)
	buckets, err := h.service.HistoricalConsumption(r.Context(), start, end)
	if err != nil {
		metrics.ExportRequest(format, metrics.ResultError)
		h.serveError(w, "export", err)
		return
	}

	var payload []byte
	var contentType, filename string
	switch format {
	case "pdf":
		payload, err = export.BuildDailyReportPDF(day, buckets)
		contentType = "application/pdf"
		filename = "energy-" + day.Format("2006-01-02") + ".pdf"
	default:
		payload, err = export.BuildDailyReportXLSX(day, buckets)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "energy-" + day.Format("2006-01-02") + ".xlsx"
	}
	if err != nil {
		metrics.ExportRequest(format, metrics.ResultError)
		h.serveError(w, "export", err)
		return
	}

	metrics.ExportRequest(format, metrics.ResultSuccess)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func validateBudget(req budgetRequest) (energy.Budget, error) {
	if req.Amount <= 0 {
		return energy.Budget{}, energy.NewValidationError("budget amount must be positive")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return energy.Budget{}, energy.NewValidationError("invalid startDate %q", req.StartDate)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return energy.Budget{}, energy.NewValidationError("invalid endDate %q", req.EndDate)
	}
	if end.Before(start) {
		return energy.Budget{}, energy.NewValidationError("endDate precedes startDate")
	}
	return energy.Budget{Amount: req.Amount, StartDate: start, EndDate: end}, nil
}

func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, energy.NewValidationError("%s is required", name)
	}
	ts, err := parseDate(raw)
	if err != nil {
		return time.Time{}, energy.NewValidationError("invalid %s %q", name, raw)
	}
	return ts, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && h.logger != nil {
		h.logger.Printf("response encode error: %v", err)
	}
}

// serveError maps the error taxonomy onto status codes: validation
// errors are the caller's fault, everything else is a 500.
func (h *Handler) serveError(w http.ResponseWriter, op string, err error) {
	var validation *energy.ValidationError
	if errors.As(err, &validation) {
		http.Error(w, validation.Message, http.StatusBadRequest)
		return
	}
	if h.logger != nil {
		h.logger.Printf("%s error: %v", op, err)
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
