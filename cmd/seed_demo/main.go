package main

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/voltsite/voltsitego/internal/config"
	"github.com/voltsite/voltsitego/internal/database"
	"github.com/voltsite/voltsitego/internal/floorplan"
	"github.com/voltsite/voltsitego/internal/models"
	"github.com/voltsite/voltsitego/internal/utils"
)

func main() {
	fmt.Println("🌱 VoltSite Demo Data Seeder")

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
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
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var projectCount int64
	db.Model(&models.Project{}).Count(&projectCount)
	if projectCount > 0 {
		fmt.Printf("⚠️  Database already has %d projects. Clear it first? (y/N): ", projectCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE messages CASCADE")
		db.Exec("TRUNCATE TABLE site_tasks CASCADE")
		db.Exec("TRUNCATE TABLE cable_entries CASCADE")
		db.Exec("TRUNCATE TABLE floor_plan_documents CASCADE")
		db.Exec("TRUNCATE TABLE project_members CASCADE")
		db.Exec("TRUNCATE TABLE projects CASCADE")
		db.Exec("TRUNCATE TABLE material_prices CASCADE")
		db.Exec("TRUNCATE TABLE user_auths CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	// 1. Users
	fmt.Println("👷 Creating users...")
	adminHash, _ := utils.HashPassword("admin123")
	sparkHash, _ := utils.HashPassword("spark123")

	admin := models.UserAuth{
		Username: "admin",
		Password: adminHash,
		Email:    "admin@voltsite.dev",
		Name:     "Site Admin",
		Role:     "admin",
		Trade:    "supervisor",
		Company:  "VoltSite Demo",
	}
	sparky := models.UserAuth{
		Username: "sparky",
		Password: sparkHash,
		Email:    "sparky@voltsite.dev",
		Name:     "Pat Sparks",
		Role:     "user",
		Trade:    "electrician",
		Company:  "VoltSite Demo",
	}
	db.Create(&admin)
	db.Create(&sparky)
	fmt.Printf("   admin / admin123, sparky / spark123\n")

	// 2. Project with members
	fmt.Println("🏗️  Creating demo project...")
	project := models.Project{
		Name:        "Riverside Logistics Hub",
		ClientName:  "Riverside Holdings",
		SiteAddress: "14 Wharf Road",
		Status:      models.ProjectStatusActive,
		CreatedBy:   admin.ID,
	}
	db.Create(&project)
	db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: admin.ID, Role: "owner"})
	db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: sparky.ID, Role: "editor"})
	fmt.Printf("   %s (%s)\n", project.Name, project.ProjectCode)

	// 3. Floor plan with a small starter markup
	fmt.Println("📐 Creating floor plan...")
	scale := 0.05
	state := floorplan.EmptyState()
	state.ScaleMetersPerPixel = &scale
	state.Equipment = []floorplan.EquipmentItem{
		{ID: "eq-db1", Type: "DB", Position: floorplan.Position{X: 120, Y: 80}, Label: "DB1"},
		{ID: "eq-so1", Type: "SO", Position: floorplan.Position{X: 340, Y: 210}, Label: "SO-G12"},
		{ID: "eq-lum1", Type: "LUM", Position: floorplan.Position{X: 500, Y: 150}, Label: "L-G03"},
	}
	state.Cables = []floorplan.CableRoute{
		{
			ID: "cab-1", From: "DB1", To: "SO-G12", CableType: "SWA 3c 2.5mm",
			Points:  []floorplan.Position{{X: 120, Y: 80}, {X: 340, Y: 80}, {X: 340, Y: 210}},
			LengthM: 17.5,
		},
	}
	raw, _ := json.Marshal(state)

	plan := models.FloorPlanDocument{
		ProjectID:           project.ID,
		Name:                "Ground Floor",
		DrawingRef:          "E-101 Rev C",
		State:               raw,
		ScaleMetersPerPixel: &scale,
		UpdatedBy:           admin.ID,
	}
	db.Create(&plan)
	fmt.Printf("   %s (%s)\n", plan.Name, plan.DrawingRef)

	// 4. Cable schedule
	fmt.Println("🔌 Creating cable schedule...")
	cables := []models.CableEntry{
		{ProjectID: project.ID, Tag: "C-DB1-001", FromRef: "DB1", ToRef: "SO-G12", CableType: "SWA 3c 2.5mm", Cores: 3, LengthM: 17.5, Terminated: models.TerminationBoth, ImportedVia: "markup"},
		{ProjectID: project.ID, Tag: "C-DB1-002", FromRef: "DB1", ToRef: "L-G03", CableType: "FP200 2c 1.5mm", Cores: 2, LengthM: 24.0, Terminated: models.TerminationFrom, ImportedVia: "manual"},
		{ProjectID: project.ID, Tag: "C-MAIN-001", FromRef: "MSB", ToRef: "DB1", CableType: "SWA 4c 16mm", Cores: 4, LengthM: 62.0, Terminated: models.TerminationNone, ImportedVia: "manual"},
	}
	db.Create(&cables)

	// 5. Material prices (normally kept fresh by the ERP sync)
	fmt.Println("💰 Creating material prices...")
	now := time.Now()
	prices := []models.MaterialPrice{
		{Code: "SWA 3c 2.5mm", Description: "Steel wire armoured, 3 core 2.5mm²", UnitPrice: 2.10, Source: "manual", LastSyncedAt: now},
		{Code: "SWA 4c 16mm", Description: "Steel wire armoured, 4 core 16mm²", UnitPrice: 9.80, Source: "manual", LastSyncedAt: now},
		{Code: "FP200 2c 1.5mm", Description: "Fire rated, 2 core 1.5mm²", UnitPrice: 1.65, Source: "manual", LastSyncedAt: now},
	}
	db.Create(&prices)

	// 6. Tasks on the Eisenhower matrix
	fmt.Println("📋 Creating tasks...")
	tasks := []models.SiteTask{
		{ProjectID: project.ID, Title: "Terminate MSB to DB1 submain", Urgent: true, Important: true, Status: models.TaskStatusOpen, AssignedTo: &sparky.ID},
		{ProjectID: project.ID, Title: "Order label stock for QR tags", Urgent: false, Important: true, Status: models.TaskStatusOpen},
		{ProjectID: project.ID, Title: "Tidy cable offcuts in riser", Urgent: false, Important: false, Status: models.TaskStatusOpen},
	}
	db.Create(&tasks)

	// 7. A message to make the channel non-empty
	db.Create(&models.Message{
		ProjectID: project.ID,
		SenderID:  admin.ID,
		Body:      "Ground floor markup is seeded. Check the DB1 cable runs before Monday.",
	})

	fmt.Println()
	fmt.Println("✅ Demo data ready")
}
