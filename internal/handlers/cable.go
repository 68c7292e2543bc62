package handlers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/models"
)

// listCables returns a project's cable schedule
func (r *Router) listCables(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	query := r.db.Where("project_id = ?", projectID)
	if cableType := req.URL.Query().Get("cableType"); cableType != "" {
		query = query.Where("cable_type = ?", cableType)
	}
	if terminated := req.URL.Query().Get("terminated"); terminated != "" {
		query = query.Where("terminated = ?", terminated)
	}

	var cables []models.CableEntry
	if err := query.Order("tag ASC").Find(&cables).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch cable schedule")
		return
	}

	respondJSON(w, http.StatusOK, cables)
}

// createCable adds one cable schedule entry
func (r *Router) createCable(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, true) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var cable models.CableEntry
	if err := json.NewDecoder(req.Body).Decode(&cable); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if cable.CableType == "" {
		respondError(w, http.StatusBadRequest, "cableType is required")
		return
	}

	cable.ID = 0
	cable.ProjectID = projectID
	if cable.Terminated == "" {
		cable.Terminated = models.TerminationNone
	}
	if cable.ImportedVia == "" {
		cable.ImportedVia = "manual"
	}

	if err := r.db.Create(&cable).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create cable entry")
		return
	}

	respondJSON(w, http.StatusCreated, cable)
}

// importCablesCSV bulk-imports schedule rows from a CSV body. The expected
// header is: tag,from,to,cableType,cores,lengthM,notes (order-insensitive,
// extra columns ignored). Rows with no cableType are skipped and reported.
func (r *Router) importCablesCSV(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, true) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	reader := csv.NewReader(req.Body)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing CSV header row")
		return
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var entries []models.CableEntry
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, "Malformed CSV: "+err.Error())
			return
		}

		cableType := field(row, "cabletype")
		if cableType == "" {
			skipped++
			continue
		}

		cores, _ := strconv.Atoi(field(row, "cores"))
		lengthM, _ := strconv.ParseFloat(field(row, "lengthm"), 64)

		entries = append(entries, models.CableEntry{
			ProjectID:   projectID,
			Tag:         field(row, "tag"),
			FromRef:     field(row, "from"),
			ToRef:       field(row, "to"),
			CableType:   cableType,
			Cores:       cores,
			LengthM:     lengthM,
			Notes:       field(row, "notes"),
			Terminated:  models.TerminationNone,
			ImportedVia: "csv",
		})
	}

	if len(entries) > 0 {
		if err := r.db.CreateInBatches(entries, 200).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to import cable entries")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"imported": len(entries),
		"skipped":  skipped,
	})
}

// updateCable updates one schedule entry
func (r *Router) updateCable(w http.ResponseWriter, req *http.Request) {
	cableID := mux.Vars(req)["id"]

	var cable models.CableEntry
	if err := r.db.First(&cable, "id = ?", cableID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Cable entry not found")
		return
	}

	member := r.membership(req, cable.ProjectID)
	if member == nil || !member.CanEdit() {
		respondError(w, http.StatusForbidden, "Requires editor role")
		return
	}

	var updates models.CableEntry
	if err := json.NewDecoder(req.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// ID and project binding are immutable
	updates.ID = cable.ID
	updates.ProjectID = cable.ProjectID
	updates.CreatedAt = cable.CreatedAt

	if err := r.db.Save(&updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update cable entry")
		return
	}

	respondJSON(w, http.StatusOK, updates)
}

// deleteCable removes one schedule entry
func (r *Router) deleteCable(w http.ResponseWriter, req *http.Request) {
	cableID := mux.Vars(req)["id"]

	var cable models.CableEntry
	if err := r.db.First(&cable, "id = ?", cableID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Cable entry not found")
		return
	}

	member := r.membership(req, cable.ProjectID)
	if member == nil || !member.CanEdit() {
		respondError(w, http.StatusForbidden, "Requires editor role")
		return
	}

	if err := r.db.Delete(&cable).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete cable entry")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
