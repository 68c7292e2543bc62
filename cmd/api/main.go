package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voltsite/voltsitego/internal/config"
	"github.com/voltsite/voltsitego/internal/database"
	"github.com/voltsite/voltsitego/internal/floorplan"
	"github.com/voltsite/voltsitego/internal/handlers"
	"github.com/voltsite/voltsitego/internal/models"
	"github.com/voltsite/voltsitego/internal/services/erp"
	"github.com/voltsite/voltsitego/internal/session"
	ws "github.com/voltsite/voltsitego/internal/websocket"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema (Critical for Zero-Config)
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Project{},
		&models.ProjectMember{},
		&models.FloorPlanDocument{},
		&models.CableEntry{},
		&models.SiteTask{},
		&models.Message{},
		&models.MaterialPrice{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Editing session manager. Autosave commits land here: the session's
	// debounced snapshot replaces the stored state and bumps the revision.
	persist := func(planID string, state floorplan.FloorPlanState) error {
		raw, err := json.Marshal(state)
		if err != nil {
			return err
		}
		return db.Model(&models.FloorPlanDocument{}).
			Where("id = ?", planID).
			Updates(map[string]interface{}{
				"state":    datatypes.JSON(raw),
				"revision": gorm.Expr("revision + 1"),
			}).Error
	}

	sessions := session.NewManager(
		persist,
		time.Duration(cfg.Editor.AutosaveWindowMS)*time.Millisecond,
		time.Duration(cfg.Editor.SessionTTLMinutes)*time.Minute,
	)
	sessions.StartJanitor()
	log.Printf("✅ Editing sessions ready (autosave %dms, idle TTL %dmin)",
		cfg.Editor.AutosaveWindowMS, cfg.Editor.SessionTTLMinutes)

	// 5. Markup sync hub. REQUEST_STATE is answered from the open session.
	hub := ws.NewHub(func(planID string) (interface{}, bool) {
		sess, ok := sessions.Get(planID)
		if !ok {
			return nil, false
		}
		return sess.Store.State(), true
	})
	go hub.Run()

	// 6. ERP price list sync (Background, disabled when ERP_URL is unset)
	priceSync := erp.NewPriceSyncService(db, cfg.ERP)
	priceSync.Start()

	// 7. Set up HTTP router
	router := handlers.NewRouter(db, cfg, sessions, hub)

	// 8. Start server with graceful shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 VoltSite API starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// Create context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Flush every open editing session before the database goes away
	sessions.Shutdown()
	log.Println("✅ Editing sessions flushed")

	// Stop ERP price sync
	priceSync.Stop()

	// Close database (stops the embedded instance when present)
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("👋 Shutdown complete")
}
