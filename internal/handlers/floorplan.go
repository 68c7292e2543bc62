package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/floorplan"
	"github.com/voltsite/voltsitego/internal/middleware"
	"github.com/voltsite/voltsitego/internal/models"
	"github.com/voltsite/voltsitego/internal/services/report"
	"github.com/voltsite/voltsitego/internal/session"
	"github.com/voltsite/voltsitego/internal/utils"
	ws "github.com/voltsite/voltsitego/internal/websocket"
)

// loadPlan resolves the floor plan from the route and checks the caller's
// membership on its project. Writes the error response itself.
func (r *Router) loadPlan(w http.ResponseWriter, req *http.Request, needEdit bool) *models.FloorPlanDocument {
	planID := mux.Vars(req)["id"]

	var plan models.FloorPlanDocument
	if err := r.db.First(&plan, "id = ?", planID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Floor plan not found")
		return nil
	}

	member := r.membership(req, plan.ProjectID)
	if member == nil {
		respondError(w, http.StatusForbidden, "Not a member of this project")
		return nil
	}
	if needEdit && !member.CanEdit() {
		respondError(w, http.StatusForbidden, "Requires editor role")
		return nil
	}
	return &plan
}

// checkoutPlan opens (or joins) the editing session for a plan, seeding it
// from the persisted snapshot. An already-open session keeps its in-memory
// state; the stored JSON is only the cold-start seed.
func (r *Router) checkoutPlan(plan *models.FloorPlanDocument) (*session.Session, error) {
	state := floorplan.EmptyState()
	if len(plan.State) > 0 {
		if err := json.Unmarshal(plan.State, &state); err != nil {
			return nil, fmt.Errorf("stored state for plan %s is corrupt: %w", plan.ID, err)
		}
	}
	if state.ScaleMetersPerPixel == nil {
		state.ScaleMetersPerPixel = plan.ScaleMetersPerPixel
	}
	return r.sessions.Checkout(plan.ID, state), nil
}

// broadcastState pushes the new snapshot to every markup client watching the
// plan. HTTP callers get it in the response body as well.
func (r *Router) broadcastState(planID string, state floorplan.FloorPlanState) {
	r.hub.BroadcastToPlan(planID, map[string]interface{}{
		"type":   ws.MsgStatePatch,
		"planId": planID,
		"state":  state,
	}, "")
}

// listFloorPlans returns a project's floor plan documents without their
// (potentially large) state blobs.
func (r *Router) listFloorPlans(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var plans []models.FloorPlanDocument
	err := r.db.
		Select("id", "project_id", "name", "drawing_ref", "scale_meters_per_pixel", "revision", "updated_by", "created_at", "updated_at").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&plans).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch floor plans")
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

// createFloorPlan creates an empty floor plan document
func (r *Router) createFloorPlan(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, true) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var plan models.FloorPlanDocument
	if err := json.NewDecoder(req.Body).Decode(&plan); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if plan.Name == "" {
		respondError(w, http.StatusBadRequest, "Floor plan name is required")
		return
	}

	empty, _ := json.Marshal(floorplan.EmptyState())
	plan.ID = ""
	plan.ProjectID = projectID
	plan.State = empty
	plan.Revision = 0
	plan.UpdatedBy = middleware.UserID(req)

	if err := r.db.Create(&plan).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create floor plan")
		return
	}

	respondJSON(w, http.StatusCreated, plan)
}

// getFloorPlan returns the document. When an editing session is open its
// in-memory state wins over the persisted snapshot.
func (r *Router) getFloorPlan(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, false)
	if plan == nil {
		return
	}

	if sess, ok := r.sessions.Get(plan.ID); ok {
		live, err := json.Marshal(sess.Store.State())
		if err == nil {
			plan.State = live
		}
	}

	respondJSON(w, http.StatusOK, plan)
}

// deleteFloorPlan soft-deletes a plan and drops any open session for it
func (r *Router) deleteFloorPlan(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}

	r.sessions.Release(plan.ID)
	if err := r.db.Delete(&models.FloorPlanDocument{}, "id = ?", plan.ID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete floor plan")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// patchFloorPlanState merges a partial state update into the editing session
func (r *Router) patchFloorPlanState(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}

	var patch floorplan.Patch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state := sess.ApplyPatch(patch)
	r.broadcastState(plan.ID, state)
	respondJSON(w, http.StatusOK, state)
}

// addPlanItem adds one entity to the plan. {kind} names the sequence.
func (r *Router) addPlanItem(w http.ResponseWriter, req *http.Request) {
	r.upsertPlanItem(w, req, false)
}

// updatePlanItem replaces one entity, matched by its id
func (r *Router) updatePlanItem(w http.ResponseWriter, req *http.Request) {
	r.upsertPlanItem(w, req, true)
}

func (r *Router) upsertPlanItem(w http.ResponseWriter, req *http.Request, update bool) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}
	kind := mux.Vars(req)["kind"]

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var mutate func(*floorplan.Store)
	switch kind {
	case "equipment":
		var item floorplan.EquipmentItem
		if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid equipment payload")
			return
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdateEquipment(item) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddEquipment(item) }
		}
	case "cables":
		var cable floorplan.CableRoute
		if err := json.NewDecoder(req.Body).Decode(&cable); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid cable payload")
			return
		}
		// A freshly drawn route carries points but no length; derive it from
		// the document scale when one is set.
		if cable.LengthM == 0 && len(cable.Points) > 1 {
			if scale := sess.Store.State().ScaleMetersPerPixel; scale != nil {
				cable.LengthM = utils.PolylineLengthM(cable.Points, *scale)
			}
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdateCable(cable) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddCable(cable) }
		}
	case "containment":
		var run floorplan.ContainmentRun
		if err := json.NewDecoder(req.Body).Decode(&run); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid containment payload")
			return
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdateContainment(run) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddContainment(run) }
		}
	case "zones":
		var zone floorplan.Zone
		if err := json.NewDecoder(req.Body).Decode(&zone); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid zone payload")
			return
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdateZone(zone) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddZone(zone) }
		}
	case "pvroofs":
		var roof floorplan.PVRoof
		if err := json.NewDecoder(req.Body).Decode(&roof); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid PV roof payload")
			return
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdatePVRoof(roof) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddPVRoof(roof) }
		}
	case "pvarrays":
		var array floorplan.PVArray
		if err := json.NewDecoder(req.Body).Decode(&array); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid PV array payload")
			return
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdatePVArray(array) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddPVArray(array) }
		}
	case "tasks":
		var task floorplan.PlanTask
		if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid task payload")
			return
		}
		if update {
			mutate = func(st *floorplan.Store) { st.UpdateTask(task) }
		} else {
			mutate = func(st *floorplan.Store) { st.AddTask(task) }
		}
	default:
		respondError(w, http.StatusBadRequest, "Unknown item kind: "+kind)
		return
	}

	state := sess.Mutate(mutate)
	r.broadcastState(plan.ID, state)

	status := http.StatusCreated
	if update {
		status = http.StatusOK
	}
	respondJSON(w, status, state)
}

// deletePlanItem removes one entity from the plan
func (r *Router) deletePlanItem(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}
	vars := mux.Vars(req)
	kind, itemID := vars["kind"], vars["itemId"]

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var mutate func(*floorplan.Store)
	switch kind {
	case "equipment":
		mutate = func(st *floorplan.Store) { st.DeleteEquipment(itemID) }
	case "cables":
		mutate = func(st *floorplan.Store) { st.DeleteCable(itemID) }
	case "containment":
		mutate = func(st *floorplan.Store) { st.DeleteContainment(itemID) }
	case "zones":
		mutate = func(st *floorplan.Store) { st.DeleteZone(itemID) }
	case "pvroofs":
		mutate = func(st *floorplan.Store) { st.DeletePVRoof(itemID) }
	case "pvarrays":
		mutate = func(st *floorplan.Store) { st.DeletePVArray(itemID) }
	case "tasks":
		mutate = func(st *floorplan.Store) { st.DeleteTask(itemID) }
	default:
		respondError(w, http.StatusBadRequest, "Unknown item kind: "+kind)
		return
	}

	state := sess.Mutate(mutate)
	r.broadcastState(plan.ID, state)
	respondJSON(w, http.StatusOK, state)
}

// undoFloorPlan steps the document back one history entry. Stepping past the
// beginning is a no-op, not an error.
func (r *Router) undoFloorPlan(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state, applied := sess.Undo()
	if applied {
		r.broadcastState(plan.ID, state)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"applied": applied,
		"canUndo": sess.Store.CanUndo(),
		"canRedo": sess.Store.CanRedo(),
		"state":   state,
	})
}

// redoFloorPlan steps the document forward one history entry
func (r *Router) redoFloorPlan(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state, applied := sess.Redo()
	if applied {
		r.broadcastState(plan.ID, state)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"applied": applied,
		"canUndo": sess.Store.CanUndo(),
		"canRedo": sess.Store.CanRedo(),
		"state":   state,
	})
}

// clearFloorPlan resets the document to empty. The reset is undoable.
func (r *Router) clearFloorPlan(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, true)
	if plan == nil {
		return
	}

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	state := sess.ClearAll()
	r.broadcastState(plan.ID, state)
	respondJSON(w, http.StatusOK, state)
}

// selectPlanItem sets or clears the selection. Selection never enters the
// undo history and an empty body clears it.
func (r *Router) selectPlanItem(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, false)
	if plan == nil {
		return
	}

	var ref floorplan.SelectionRef
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&ref)
	}

	sess, err := r.checkoutPlan(plan)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	sess.Select(ref.Type, ref.ID)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"selectedItem": sess.Store.State().SelectedItem,
	})
}

// releaseFloorPlan flushes and closes the plan's editing session
func (r *Router) releaseFloorPlan(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, false)
	if plan == nil {
		return
	}

	r.sessions.Release(plan.ID)
	respondJSON(w, http.StatusOK, map[string]string{"status": "released"})
}

// getLabelSheetPDF renders QR labels for a plan's equipment onto A4 label
// stock. Callers may narrow the set with a list of equipment ids.
func (r *Router) getLabelSheetPDF(w http.ResponseWriter, req *http.Request) {
	plan := r.loadPlan(w, req, false)
	if plan == nil {
		return
	}

	var body struct {
		EquipmentIDs []string                 `json:"equipmentIds"`
		Sheet        *report.LabelSheetConfig `json:"sheet"`
	}
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&body)
	}

	state := floorplan.EmptyState()
	if sess, ok := r.sessions.Get(plan.ID); ok {
		state = sess.Store.State()
	} else if len(plan.State) > 0 {
		if err := json.Unmarshal(plan.State, &state); err != nil {
			respondError(w, http.StatusInternalServerError, "Stored state is corrupt")
			return
		}
	}

	wanted := make(map[string]bool, len(body.EquipmentIDs))
	for _, id := range body.EquipmentIDs {
		wanted[id] = true
	}

	var labels []report.EquipmentLabel
	for _, item := range state.Equipment {
		if len(wanted) > 0 && !wanted[item.ID] {
			continue
		}
		caption := item.Label
		if caption == "" {
			caption = item.Type
		}
		labels = append(labels, report.EquipmentLabel{
			EquipmentID: item.ID,
			TypeCode:    item.Type,
			Caption:     caption,
		})
	}
	if len(labels) == 0 {
		respondError(w, http.StatusBadRequest, "No equipment to label")
		return
	}

	sheet := report.DefaultLabelSheet()
	if body.Sheet != nil {
		sheet = *body.Sheet
	}

	pdf, err := report.GenerateLabelSheetPDF(sheet, labels)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate label sheet")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=labels_%s.pdf", plan.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
