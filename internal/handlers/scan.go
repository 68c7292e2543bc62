package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/voltsite/voltsitego/internal/floorplan"
	"github.com/voltsite/voltsitego/internal/models"
	"github.com/voltsite/voltsitego/internal/utils"
	"gorm.io/datatypes"
)

// ScanRequest represents the payload from a scanner
type ScanRequest struct {
	Code string `json:"code"`
}

// ScanResponse standardizes the scan result
type ScanResponse struct {
	Type    string      `json:"type"`           // equipment, inspection
	Message string      `json:"message"`        // Human readable status
	Action  string      `json:"action"`         // found, decoded, error
	Data    interface{} `json:"data,omitempty"` // The resulting object
}

// handleScan is the universal entry point for scanned label codes
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) {
	var body ScanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	code := strings.TrimSpace(strings.TrimPrefix(body.Code, "VOLTSITE/"))
	if code == "" {
		respondError(w, http.StatusBadRequest, "Empty code")
		return
	}

	// Identify type by prefix
	var resp ScanResponse
	var err error
	switch code[0] {
	case 'e':
		resp, err = r.processEquipmentScan(req, code)
	case 'n':
		resp, err = r.processInspectionScan(code)
	default:
		err = fmt.Errorf("unknown code prefix %q", code[0])
	}

	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// processEquipmentScan handles 'e' codes: resolve the tag to the equipment
// symbol and the floor plan carrying it, scoped to the caller's projects.
func (r *Router) processEquipmentScan(req *http.Request, code string) (ScanResponse, error) {
	tag, err := utils.DecodeEquipmentTag(code)
	if err != nil {
		return ScanResponse{}, fmt.Errorf("invalid equipment tag: %v", err)
	}

	// JSONB containment finds every plan whose equipment slice carries the
	// id; membership filtering happens after.
	needle, err := json.Marshal([]map[string]string{{"id": tag.EquipmentID}})
	if err != nil {
		return ScanResponse{}, err
	}

	var plans []models.FloorPlanDocument
	if err := r.db.Where("state -> 'equipment' @> ?", datatypes.JSON(needle)).Find(&plans).Error; err != nil {
		return ScanResponse{}, err
	}

	for i := range plans {
		plan := &plans[i]
		if r.membership(req, plan.ProjectID) == nil {
			continue
		}

		// An open session's in-memory state wins over the stored snapshot.
		state := floorplan.EmptyState()
		if sess, ok := r.sessions.Get(plan.ID); ok {
			state = sess.Store.State()
		} else if err := json.Unmarshal(plan.State, &state); err != nil {
			continue
		}

		for _, item := range state.Equipment {
			if item.ID == tag.EquipmentID {
				return ScanResponse{
					Type:    "equipment",
					Action:  "found",
					Message: fmt.Sprintf("Found on plan %q", plan.Name),
					Data: map[string]interface{}{
						"planId":    plan.ID,
						"planName":  plan.Name,
						"projectId": plan.ProjectID,
						"equipment": item,
						"typeCode":  tag.TypeCode,
					},
				}, nil
			}
		}
	}

	return ScanResponse{}, fmt.Errorf("no equipment %q on any accessible plan", tag.EquipmentID)
}

// processInspectionScan handles 'n' codes (dated test/inspection stickers)
func (r *Router) processInspectionScan(code string) (ScanResponse, error) {
	label, err := utils.DecodeInspectionLabel(code)
	if err != nil {
		return ScanResponse{}, fmt.Errorf("invalid inspection label: %v", err)
	}

	return ScanResponse{
		Type:    "inspection",
		Action:  "decoded",
		Message: fmt.Sprintf("Inspection of %s, result %s", label.Date.Format("2006-01-02"), label.Result),
		Data:    label,
	}, nil
}
