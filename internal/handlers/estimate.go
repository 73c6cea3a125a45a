package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"loadestimator/internal/models"
	"loadestimator/internal/services"
	"loadestimator/internal/utils"
)

type EstimateHandler struct {
	estimates *services.EstimateService
	reports   *services.ReportService
	logr      *zap.Logger
}

func NewEstimateHandler(est *services.EstimateService, rep *services.ReportService, logr *zap.Logger) *EstimateHandler {
	return &EstimateHandler{estimates: est, reports: rep, logr: logr}
}

type estimateReq struct {
	BuildingType  string  `json:"building_type"`
	FloorAreaSqFt float64 `json:"floor_area_sq_ft"`
}

// GetBuildingTypes handles GET /reference/building-types.
func (h *EstimateHandler) GetBuildingTypes(w http.ResponseWriter, r *http.Request) {
	types := h.estimates.BuildingTypes()
	writeJSON(w, http.StatusOK, map[string]any{
		"building_types": types,
		"count":          len(types),
	})
}

// GetRows handles GET /reference/rows.
func (h *EstimateHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	rows := h.estimates.Rows()
	writeJSON(w, http.StatusOK, map[string]any{
		"rows":  rows,
		"count": len(rows),
	})
}

// Estimate handles POST /estimates: Low/Average/High results for one
// building type.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	rr, err := h.estimates.Estimate(req.BuildingType, req.FloorAreaSqFt)
	if err != nil {
		h.logr.Warn("estimate failed", zap.Error(err),
			zap.String("building_type", req.BuildingType))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rr)
}

// Compare handles GET /estimates/compare?types=a,b&area=7500.
func (h *EstimateHandler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	area, err := strconv.ParseFloat(q.Get("area"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid area parameter"})
		return
	}
	types := utils.ParseQueryList(q, "types")

	cmp, err := h.estimates.Compare(types, area)
	if err != nil {
		h.logr.Warn("comparison failed", zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, cmp)
}

type reportReq struct {
	BuildingType  string   `json:"building_type"`
	FloorAreaSqFt float64  `json:"floor_area_sq_ft"`
	CompareTypes  []string `json:"compare_types,omitempty"`
}

// Report handles POST /estimates/report: computes the range results and
// streams the PDF back.
func (h *EstimateHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	rr, err := h.estimates.Estimate(req.BuildingType, req.FloorAreaSqFt)
	if err != nil {
		writeError(w, err)
		return
	}

	var cmp *models.Comparison
	if len(req.CompareTypes) > 1 {
		c, err := h.estimates.Compare(req.CompareTypes, req.FloorAreaSqFt)
		if err == nil {
			cmp = &c
		}
	}

	pdf, err := h.reports.BuildPDF(rr, cmp)
	if err != nil {
		h.logr.Error("pdf generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to generate report"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
