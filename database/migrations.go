package database

import (
	"fmt"

	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"gorm.io/gorm"
)

// MigrateSyncTables creates the bridge bookkeeping tables: the outbox of
// events waiting for the peer service and the inbox of applied events.
func MigrateSyncTables(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.OutboxEvent{}, &models.ProcessedEvent{}); err != nil {
		return fmt.Errorf("migrate sync tables: %w", err)
	}

	var pending int64
	if err := db.Model(&models.OutboxEvent{}).Where("delivered_at IS NULL").Count(&pending).Error; err != nil {
		return fmt.Errorf("count pending outbox events: %w", err)
	}
	utils.InfoLogger.WithField("pending", pending).Info("sync tables ready")
	return nil
}
