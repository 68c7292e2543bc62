package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/middleware"
	"github.com/voltsite/voltsitego/internal/models"
	"gorm.io/gorm"
)

// membership loads the caller's membership row for a project. Returns nil
// when the caller is not a member.
func (r *Router) membership(req *http.Request, projectID string) *models.ProjectMember {
	userID := middleware.UserID(req)
	if userID == "" {
		return nil
	}
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error; err != nil {
		return nil
	}
	return &member
}

// requireMember resolves the project from the route and checks membership.
// Writes the error response itself; callers just return on nil.
func (r *Router) requireMember(w http.ResponseWriter, req *http.Request, needEdit bool) *models.ProjectMember {
	projectID := mux.Vars(req)["id"]
	member := r.membership(req, projectID)
	if member == nil {
		respondError(w, http.StatusForbidden, "Not a member of this project")
		return nil
	}
	if needEdit && !member.CanEdit() {
		respondError(w, http.StatusForbidden, "Requires editor role")
		return nil
	}
	return member
}

// listProjects returns every project the caller is a member of
func (r *Router) listProjects(w http.ResponseWriter, req *http.Request) {
	userID := middleware.UserID(req)

	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// createProject creates a project and makes the caller its owner
func (r *Router) createProject(w http.ResponseWriter, req *http.Request) {
	var project models.Project
	if err := json.NewDecoder(req.Body).Decode(&project); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if project.Name == "" {
		respondError(w, http.StatusBadRequest, "Project name is required")
		return
	}

	userID := middleware.UserID(req)
	project.ID = ""
	project.CreatedBy = userID

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		owner := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      "owner",
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

// getProject returns one project with its members
func (r *Router) getProject(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var project models.Project
	if err := r.db.Preload("Members.User").First(&project, "id = ?", projectID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// updateProject updates mutable project fields
func (r *Router) updateProject(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, true) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var project models.Project
	if err := r.db.First(&project, "id = ?", projectID).Error; err != nil {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	var updates struct {
		Name        *string               `json:"name"`
		ClientName  *string               `json:"clientName"`
		SiteAddress *string               `json:"siteAddress"`
		Status      *models.ProjectStatus `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&updates); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if updates.Name != nil {
		project.Name = *updates.Name
	}
	if updates.ClientName != nil {
		project.ClientName = *updates.ClientName
	}
	if updates.SiteAddress != nil {
		project.SiteAddress = *updates.SiteAddress
	}
	if updates.Status != nil {
		project.Status = *updates.Status
	}

	if err := r.db.Save(&project).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// deleteProject soft-deletes a project. Owner only.
func (r *Router) deleteProject(w http.ResponseWriter, req *http.Request) {
	member := r.requireMember(w, req, false)
	if member == nil {
		return
	}
	if member.Role != "owner" {
		respondError(w, http.StatusForbidden, "Only the project owner can delete a project")
		return
	}
	projectID := mux.Vars(req)["id"]

	if err := r.db.Delete(&models.Project{}, "id = ?", projectID).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// addMember grants a user access to a project
func (r *Router) addMember(w http.ResponseWriter, req *http.Request) {
	member := r.requireMember(w, req, false)
	if member == nil {
		return
	}
	if member.Role != "owner" {
		respondError(w, http.StatusForbidden, "Only the project owner can add members")
		return
	}
	projectID := mux.Vars(req)["id"]

	var body struct {
		UserID string `json:"userId"`
		Email  string `json:"email"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Role == "" {
		body.Role = "viewer"
	}

	// Accept either a user id or an email
	if body.UserID == "" && body.Email != "" {
		var user models.UserAuth
		if err := r.db.Where("email = ?", body.Email).First(&user).Error; err != nil {
			respondError(w, http.StatusNotFound, "No user with that email")
			return
		}
		body.UserID = user.ID
	}
	if body.UserID == "" {
		respondError(w, http.StatusBadRequest, "userId or email is required")
		return
	}

	newMember := models.ProjectMember{
		ProjectID: projectID,
		UserID:    body.UserID,
		Role:      body.Role,
	}
	if err := r.db.Create(&newMember).Error; err != nil {
		respondError(w, http.StatusConflict, "User is already a member")
		return
	}

	respondJSON(w, http.StatusCreated, newMember)
}
