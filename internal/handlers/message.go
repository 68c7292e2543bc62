package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/middleware"
	"github.com/voltsite/voltsitego/internal/models"
)

// listMessages returns a project's messages, newest first
func (r *Router) listMessages(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	limit := 50
	if raw := req.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var messages []models.Message
	err := r.db.
		Where("project_id = ?", projectID).
		Preload("Sender").
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// postMessage posts a message to the project channel
func (r *Router) postMessage(w http.ResponseWriter, req *http.Request) {
	if r.requireMember(w, req, false) == nil {
		return
	}
	projectID := mux.Vars(req)["id"]

	var body struct {
		Body    string `json:"body"`
		ReplyTo *uint  `json:"replyTo"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Body == "" {
		respondError(w, http.StatusBadRequest, "Message body is required")
		return
	}

	message := models.Message{
		ProjectID: projectID,
		SenderID:  middleware.UserID(req),
		Body:      body.Body,
		ReplyTo:   body.ReplyTo,
	}
	if err := r.db.Create(&message).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to post message")
		return
	}

	respondJSON(w, http.StatusCreated, message)
}
