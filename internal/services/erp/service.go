package erp

import (
	"log"
	"time"

	"github.com/voltsite/voltsitego/internal/config"
	"github.com/voltsite/voltsitego/internal/database"
	"github.com/voltsite/voltsitego/internal/models"
	"gorm.io/gorm/clause"
)

// PriceSyncService pulls material unit prices from the ERP price list into
// material_prices, where the cost report reads them.
type PriceSyncService struct {
	client *Client
	db     *database.DB
	cfg    config.ERPConfig
	stop   chan struct{}
}

// erpProduct mirrors the fields fetched from the ERP product model.
type erpProduct struct {
	ID          int64   `json:"id"`
	DefaultCode string  `json:"default_code"`
	Name        string  `json:"name"`
	ListPrice   float64 `json:"list_price"`
}

// NewPriceSyncService creates a new price synchronization service
func NewPriceSyncService(db *database.DB, cfg config.ERPConfig) *PriceSyncService {
	return &PriceSyncService{
		client: NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		db:     db,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// Start begins the background synchronization loop
func (s *PriceSyncService) Start() {
	if s.cfg.URL == "" {
		log.Println("ERP price sync disabled: ERP_URL not configured")
		return
	}

	go func() {
		log.Println("📡 ERP Price Sync Service started")

		if _, err := s.client.Authenticate(); err != nil {
			log.Printf("❌ ERP authentication failed: %v", err)
			return
		}

		// Initial sync delay so the server finishes booting first
		time.Sleep(5 * time.Second)
		s.syncPrices()

		interval := time.Duration(s.cfg.SyncInterval) * time.Minute
		if s.cfg.SyncInterval <= 0 {
			interval = time.Hour
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.syncPrices()
			case <-s.stop:
				log.Println("🛑 ERP Price Sync Service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *PriceSyncService) Stop() {
	close(s.stop)
}

// syncPrices pulls the cable/material price list and upserts by code.
func (s *PriceSyncService) syncPrices() {
	log.Println("🔄 ERP: Syncing material prices...")

	var products []erpProduct
	domain := []interface{}{
		[]interface{}{"categ_id.name", "in", []string{"Cable", "Containment", "Electrical"}},
	}
	fields := []string{"default_code", "name", "list_price"}

	if err := s.client.SearchRead("product.product", domain, fields, 5000, 0, &products); err != nil {
		log.Printf("❌ ERP: price list fetch failed: %v", err)
		return
	}

	synced := 0
	now := time.Now().UTC()
	for _, p := range products {
		if p.DefaultCode == "" {
			continue
		}
		price := models.MaterialPrice{
			Code:         p.DefaultCode,
			Description:  p.Name,
			UnitPrice:    p.ListPrice,
			Source:       "erp",
			LastSyncedAt: now,
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "unit_price", "source", "last_synced_at", "updated_at"}),
		}).Create(&price).Error
		if err != nil {
			log.Printf("⚠️  ERP: upsert failed for %s: %v", p.DefaultCode, err)
			continue
		}
		synced++
	}

	log.Printf("✅ ERP: %d material prices synced", synced)
}
