package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/models"
)

// listTasks returns a project's tasks, optionally grouped into the four
// Eisenhower quadrants with ?grouped=true.
func (r *Router) listTasks(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	query := r.db.Where("project_id = ?", projectID).Preload("Assignee")
	if status := req.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.SiteTask
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	if req.URL.Query().Get("grouped") == "true" {
		grouped := map[string][]models.SiteTask{
			"do": {}, "schedule": {}, "delegate": {}, "drop": {},
		}
		for _, t := range tasks {
			grouped[t.Quadrant()] = append(grouped[t.Quadrant()], t)
		}
		respondJSON(w, http.StatusOK, grouped)
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// createTask adds a task to the project
func (r *Router) createTask(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, true) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var task models.SiteTask
	if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if task.Title == "" {
		respondError(w, http.StatusBadRequest, "Task title is required")
		return
	}

	task.ID = 0
	task.ProjectID = projectID
	if task.Status == "" {
		task.Status = models.TaskStatusOpen
	}

	if err := r.db.Create(&task).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// updateTask updates one task
func (r *Router) updateTask(w http.ResponseWriter, req *http.Request) {
	taskID := mux.Vars(req)["id"]

	var task models.SiteTask
	if err := r.db.First(&task, "id = ?", taskID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	member := r.membership(req, task.ProjectID)
	if member == nil || !member.CanEdit() {
		respondError(w, http.StatusForbidden, "Requires editor role")
		return
	}

	var updates models.SiteTask
	if err := json.NewDecoder(req.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updates.ID = task.ID
	updates.ProjectID = task.ProjectID
	updates.CreatedAt = task.CreatedAt

	if err := r.db.Save(&updates).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, updates)
}

// deleteTask removes one task
func (r *Router) deleteTask(w http.ResponseWriter, req *http.Request) {
	taskID := mux.Vars(req)["id"]

	var task models.SiteTask
	if err := r.db.First(&task, "id = ?", taskID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	member := r.membership(req, task.ProjectID)
	if member == nil || !member.CanEdit() {
		respondError(w, http.StatusForbidden, "Requires editor role")
		return
	}

	if err := r.db.Delete(&task).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
