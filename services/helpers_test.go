package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/raxitsanghani/grill-food-web-sub000/database"
	"github.com/raxitsanghani/grill-food-web-sub000/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(t.TempDir(), database.DefaultMenuSeed())
	require.NoError(t, err)
	return store
}

func newSyncDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sync.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateSyncTables(db))
	return db
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) BroadcastMenuUpdated(action string, item *models.MenuItem, itemID string) int {
	return m.Called(action, item, itemID).Int(0)
}

func (m *mockBroadcaster) BroadcastNewOrder(order models.Order) int {
	return m.Called(order).Int(0)
}

func (m *mockBroadcaster) BroadcastOrderStatusUpdated(order models.Order) int {
	return m.Called(order).Int(0)
}

func (m *mockBroadcaster) BroadcastRiderUpdated(action string, rider *models.Rider, riderID string) int {
	return m.Called(action, rider, riderID).Int(0)
}

func (m *mockBroadcaster) BroadcastChefUpdated(action string, chef *models.Chef, chefID string) int {
	return m.Called(action, chef, chefID).Int(0)
}

func (m *mockBroadcaster) BroadcastNewTableBooking(booking models.TableBooking) int {
	return m.Called(booking).Int(0)
}

func (m *mockBroadcaster) BroadcastTableBookingUpdated(booking models.TableBooking) int {
	return m.Called(booking).Int(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Publish(ctx context.Context, route string, event any) error {
	return m.Called(ctx, route, event).Error(0)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
