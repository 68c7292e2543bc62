package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/models"
	"github.com/voltsite/voltsitego/internal/services/report"
)

// buildProjectCostReport loads the project, its cable schedule and the
// material price list, then rolls them up into a cost report.
func (r *Router) buildProjectCostReport(projectID string) (report.CostReport, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", projectID).Error; err != nil {
		return report.CostReport{}, err
	}

	var entries []models.CableEntry
	if err := r.db.Where("project_id = ?", projectID).Find(&entries).Error; err != nil {
		return report.CostReport{}, err
	}

	var prices []models.MaterialPrice
	if err := r.db.Find(&prices).Error; err != nil {
		return report.CostReport{}, err
	}

	return report.BuildCostReport(project.Name, entries, prices), nil
}

// getCostReport returns the rolled-up cable cost report as JSON
func (r *Router) getCostReport(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	costReport, err := r.buildProjectCostReport(projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build cost report")
		return
	}

	respondJSON(w, http.StatusOK, costReport)
}

// getCostReportPDF renders the cost report as a printable PDF
func (r *Router) getCostReportPDF(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	costReport, err := r.buildProjectCostReport(projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build cost report")
		return
	}

	pdf, err := report.GenerateCostReportPDF(costReport)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=costs_%s.pdf", projectID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
