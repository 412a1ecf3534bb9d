package http

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pickpulse/internal/errors"
	"pickpulse/internal/exporter"
	"pickpulse/internal/services"
	"pickpulse/pkg/contracts/domain"
)

// StatsHandler serves the aggregated views over the combined dataset
type StatsHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StatsHandler {
	return &StatsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "stats_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the stats routes
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/employees", h.GetEmployeePerformances)
	r.Get("/employees/names", h.GetEmployeeNames)
	r.Get("/trends", h.GetWeeklyTrends)
	r.Get("/records", h.GetRecords)
	r.Get("/export", h.ExportCSV)

	return r
}

// GetEmployeePerformances handles GET /api/stats/employees.
// Optional query parameters: efficiency (level1|level2|level3) and
// min_bins (float).
func (h *StatsHandler) GetEmployeePerformances(w http.ResponseWriter, r *http.Request) {
	filter := services.PerformanceFilter{}

	if eff := r.URL.Query().Get("efficiency"); eff != "" {
		tier := domain.EfficiencyTier(eff)
		if tier.Rank() == 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("efficiency", "Efficiency must be level1, level2 or level3"))
			return
		}
		filter.Efficiency = tier
	}

	if raw := r.URL.Query().Get("min_bins"); raw != "" {
		minBins, err := strconv.ParseFloat(raw, 64)
		if err != nil || minBins < 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("min_bins", "min_bins must be a non-negative number"))
			return
		}
		filter.MinBins = minBins
	}

	performances := h.service.FilteredPerformances(r.Context(), filter)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   performances,
		"count":  len(performances),
	})
}

// GetEmployeeNames handles GET /api/stats/employees/names
func (h *StatsHandler) GetEmployeeNames(w http.ResponseWriter, r *http.Request) {
	names := h.service.Employees(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   names,
		"count":  len(names),
	})
}

// GetWeeklyTrends handles GET /api/stats/trends
func (h *StatsHandler) GetWeeklyTrends(w http.ResponseWriter, r *http.Request) {
	trends := h.service.WeeklyTrends(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   trends,
		"count":  len(trends),
	})
}

// GetRecords handles GET /api/stats/records.
// Optional query parameters: kind (pick|pack), employee, week.
func (h *StatsHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	filter := services.RecordFilter{
		Employee: r.URL.Query().Get("employee"),
		Week:     r.URL.Query().Get("week"),
	}

	if kind := r.URL.Query().Get("kind"); kind != "" {
		rk := domain.RecordKind(kind)
		if rk != domain.KindPick && rk != domain.KindPack {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind", `Kind must be "pick" or "pack"`))
			return
		}
		filter.Kind = rk
	}

	records := h.service.FilteredRecords(r.Context(), filter)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// ExportCSV handles GET /api/stats/export?dataset=employees|trends|records.
// The response is a CSV attachment with a UTF-8 BOM so Excel opens it
// correctly.
func (h *StatsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		dataset = "employees"
	}

	var (
		headers  []string
		rows     [][]string
		fileName string
	)

	switch dataset {
	case "employees":
		headers = exporter.PerformanceHeaders
		rows = exporter.PerformanceRows(h.service.EmployeePerformances(r.Context()))
		fileName = "employee_performance.csv"
	case "trends":
		headers = exporter.TrendHeaders
		rows = exporter.TrendRows(h.service.WeeklyTrends(r.Context()))
		fileName = "weekly_trends.csv"
	case "records":
		headers = exporter.RecordHeaders
		rows = exporter.RecordRows(h.service.Records(r.Context()))
		fileName = "records.csv"
	default:
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("dataset", "Dataset must be employees, trends or records"))
		return
	}

	h.logger.InfoContext(r.Context(), "exporting dataset",
		slog.String("dataset", dataset),
		slog.Int("row_count", len(rows)))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, fileName))
	w.WriteHeader(http.StatusOK)

	w.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write CSV headers",
			slog.String("error", err.Error()))
		return
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to write CSV row",
				slog.String("error", err.Error()))
			return
		}
	}
	writer.Flush()
}
