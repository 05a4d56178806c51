package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hopital-foch/ll-report/pkg/adapters"
	"github.com/hopital-foch/ll-report/pkg/export/excel"
	"github.com/hopital-foch/ll-report/pkg/models/api"
	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/services/report"
	"github.com/rs/zerolog"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	reports report.Controller
}

func NewHandler(reports report.Controller) *Handler {
	return &Handler{reports: reports}
}

// ReportByDate streams the indicator workbook for a discharge-date range.
func (h *Handler) ReportByDate(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeFromDateRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.streamWorkbook(w, r, *scope)
}

// ReportByStays streams the indicator workbook for an explicit stay set.
// An empty result is a 404: every requested stay was unknown or ineligible.
func (h *Handler) ReportByStays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	scope, err := scopeFromStaysRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := h.reports.GenerateReport(ctx, *scope)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}
	if len(rep.Stays) == 0 {
		http.Error(w, "no eligible stays matched", http.StatusNotFound)
		return
	}
	h.writeWorkbook(w, logger, rep)
}

// Summary returns the aggregate rows as JSON, without the workbook.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	scope, err := scopeFromDateRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := h.reports.GenerateReport(ctx, *scope)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(adapters.MapReportDomainToApi(rep)); err != nil {
		logger.Error().Err(err).Msg("failed to encode report summary")
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) streamWorkbook(w http.ResponseWriter, r *http.Request, scope domain.ReportScope) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	rep, err := h.reports.GenerateReport(ctx, scope)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}
	h.writeWorkbook(w, logger, rep)
}

func (h *Handler) writeWorkbook(w http.ResponseWriter, logger *zerolog.Logger, rep *domain.Report) {
	data, err := excel.Render(rep)
	if err != nil {
		logger.Error().Err(err).Str("run_id", rep.RunID).Msg("workbook rendering failed")
		http.Error(w, "workbook rendering failed", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("indicateurs_ll_%s.xlsx", rep.Period.End.Format("2006-01"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if _, err := w.Write(data); err != nil {
		logger.Error().Err(err).Str("run_id", rep.RunID).Msg("failed to stream workbook")
	}
}

func scopeFromDateRequest(r *http.Request) (*domain.ReportScope, error) {
	var req api.ReportByDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date %q", req.StartDate)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date %q", req.EndDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date %s before start_date %s", req.EndDate, req.StartDate)
	}

	return &domain.ReportScope{Period: &domain.Period{Start: start, End: end}}, nil
}

func scopeFromStaysRequest(r *http.Request) (*domain.ReportScope, error) {
	var req api.ReportByStaysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.StayIDs) == 0 {
		return nil, fmt.Errorf("stay_ids must not be empty")
	}
	return &domain.ReportScope{StayIDs: req.StayIDs}, nil
}
