package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/voltsite/voltsitego/internal/config"
	"github.com/voltsite/voltsitego/internal/database"
	"github.com/voltsite/voltsitego/internal/middleware"
	"github.com/voltsite/voltsitego/internal/session"
	ws "github.com/voltsite/voltsitego/internal/websocket"
)

// Router wraps the mux router with its collaborators
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	sessions *session.Manager
	hub      *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, sessions *session.Manager, hub *ws.Hub) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		hub:      hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Markup sync websocket
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, w, req)
	})

	// Auth routes (public)
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/refresh", r.refresh).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Projects
	api.HandleFunc("/projects", r.listProjects).Methods("GET")
	api.HandleFunc("/projects", r.createProject).Methods("POST")
	api.HandleFunc("/projects/{id}", r.getProject).Methods("GET")
	api.HandleFunc("/projects/{id}", r.updateProject).Methods("PUT")
	api.HandleFunc("/projects/{id}", r.deleteProject).Methods("DELETE")
	api.HandleFunc("/projects/{id}/members", r.addMember).Methods("POST")

	// Floor plan documents
	api.HandleFunc("/projects/{id}/floorplans", r.listFloorPlans).Methods("GET")
	api.HandleFunc("/projects/{id}/floorplans", r.createFloorPlan).Methods("POST")
	api.HandleFunc("/floorplans/{id}", r.getFloorPlan).Methods("GET")
	api.HandleFunc("/floorplans/{id}", r.deleteFloorPlan).Methods("DELETE")

	// Floor plan editing session operations
	api.HandleFunc("/floorplans/{id}/state", r.patchFloorPlanState).Methods("PATCH")
	api.HandleFunc("/floorplans/{id}/items/{kind}", r.addPlanItem).Methods("POST")
	api.HandleFunc("/floorplans/{id}/items/{kind}", r.updatePlanItem).Methods("PUT")
	api.HandleFunc("/floorplans/{id}/items/{kind}/{itemId}", r.deletePlanItem).Methods("DELETE")
	api.HandleFunc("/floorplans/{id}/undo", r.undoFloorPlan).Methods("POST")
	api.HandleFunc("/floorplans/{id}/redo", r.redoFloorPlan).Methods("POST")
	api.HandleFunc("/floorplans/{id}/clear", r.clearFloorPlan).Methods("POST")
	api.HandleFunc("/floorplans/{id}/selection", r.selectPlanItem).Methods("PUT")
	api.HandleFunc("/floorplans/{id}/release", r.releaseFloorPlan).Methods("POST")

	// Cable schedule
	api.HandleFunc("/projects/{id}/cables", r.listCables).Methods("GET")
	api.HandleFunc("/projects/{id}/cables", r.createCable).Methods("POST")
	api.HandleFunc("/projects/{id}/cables/import", r.importCablesCSV).Methods("POST")
	api.HandleFunc("/cables/{id}", r.updateCable).Methods("PUT")
	api.HandleFunc("/cables/{id}", r.deleteCable).Methods("DELETE")

	// Tasks (Eisenhower matrix)
	api.HandleFunc("/projects/{id}/tasks", r.listTasks).Methods("GET")
	api.HandleFunc("/projects/{id}/tasks", r.createTask).Methods("POST")
	api.HandleFunc("/tasks/{id}", r.updateTask).Methods("PUT")
	api.HandleFunc("/tasks/{id}", r.deleteTask).Methods("DELETE")

	// Messages
	api.HandleFunc("/projects/{id}/messages", r.listMessages).Methods("GET")
	api.HandleFunc("/projects/{id}/messages", r.postMessage).Methods("POST")

	// Scanner
	api.HandleFunc("/scan", r.handleScan).Methods("POST")

	// Reports
	api.HandleFunc("/projects/{id}/reports/costs", r.getCostReport).Methods("GET")
	api.HandleFunc("/projects/{id}/reports/costs.pdf", r.getCostReportPDF).Methods("GET")
	api.HandleFunc("/floorplans/{id}/labels.pdf", r.getLabelSheetPDF).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"openSessions": r.sessions.Count(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
