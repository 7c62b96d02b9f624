package services_test

import (
	"testing"
	"time"

	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.Plugin{},
		&models.PluginMetadata{},
		&models.Vote{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts a user row and returns its id
func createTestUser(t *testing.T, db *gorm.DB, id, name string) string {
	user := models.User{
		ID:    id,
		Name:  name,
		Email: name + "@example.com",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user.ID
}

// createTestPlugin inserts a plugin row with the given categories
func createTestPlugin(t *testing.T, db *gorm.DB, name, appConfig, createdByID string, categories []string) uint64 {
	catJSON, err := models.CategoriesJSON(categories)
	if err != nil {
		t.Fatalf("Failed to encode categories: %v", err)
	}
	plugin := models.Plugin{
		Name:        name,
		AppConfig:   appConfig,
		ReadMe:      "https://example.com/readme.md",
		Categories:  catJSON,
		Status:      models.StatusPublished,
		CreatedByID: createdByID,
	}
	if err := db.Create(&plugin).Error; err != nil {
		t.Fatalf("Failed to create test plugin: %v", err)
	}
	return plugin.ID
}

// castTestVote inserts a vote row directly, with an explicit creation time
func castTestVote(t *testing.T, db *gorm.DB, userID string, pluginID uint64, value int, at time.Time) {
	vote := models.Vote{
		CreatedByID: userID,
		PluginID:    pluginID,
		Value:       value,
		CreatedAt:   at,
	}
	if err := db.Create(&vote).Error; err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}
