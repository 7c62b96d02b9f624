package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/handlers"
	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

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

// asUser injects an authenticated identity, standing in for the session middleware
func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	user := models.User{ID: id, Name: id, Email: id + "@example.com"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

func seedPlugin(t *testing.T, db *gorm.DB, name, createdByID string) uint64 {
	plugin := models.Plugin{
		Name:        name,
		Status:      models.StatusPublished,
		CreatedByID: createdByID,
	}
	if err := db.Create(&plugin).Error; err != nil {
		t.Fatalf("Failed to seed plugin: %v", err)
	}
	return plugin.ID
}

// TestGetPluginsInvalidCursor tests GET /api/plugins with a corrupted cursor
func TestGetPluginsInvalidCursor(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	handler := &handlers.PluginHandler{DB: db, Resolver: appconfig.NewResolver(2 * time.Second)}
	app.Get("/api/plugins", handler.GetPlugins)

	req := httptest.NewRequest("GET", "/api/plugins?cursor=%40%40broken", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["cursorError"] != true {
		t.Error("Expected cursorError=true in response")
	}
	if result["ok"] != false {
		t.Error("Expected ok=false in response")
	}
}

// TestGetPluginsPage tests GET /api/plugins returns the page envelope
func TestGetPluginsPage(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "author")
	seedPlugin(t, db, "Test Plugin", "author")

	app := fiber.New()
	handler := &handlers.PluginHandler{DB: db, Resolver: appconfig.NewResolver(2 * time.Second)}
	app.Get("/api/plugins", handler.GetPlugins)

	req := httptest.NewRequest("GET", "/api/plugins", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Plugins []struct {
			Data struct {
				Name string `json:"name"`
			} `json:"data"`
		} `json:"plugins"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result.Plugins) != 1 || result.Plugins[0].Data.Name != "Test Plugin" {
		t.Errorf("Unexpected page payload: %+v", result)
	}
}

// TestManageVote tests PUT /api/plugins/:id/vote with both numeric and string values
func TestManageVote(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "voter")
	seedPlugin(t, db, "Test Plugin", "voter")

	app := fiber.New()
	voteHandler := &handlers.VoteHandler{DB: db, Resolver: appconfig.NewResolver(2 * time.Second)}
	app.Put("/api/plugins/:id/vote", asUser("voter"), voteHandler.ManageVote)
	app.Get("/api/plugins/:id/votes", asUser("voter"), voteHandler.GetVotes)

	for _, payload := range []string{`{"value":1}`, `{"value":"-1"}`} {
		req := httptest.NewRequest("PUT", "/api/plugins/1/vote", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("Payload %s: expected status 200, got %d", payload, resp.StatusCode)
		}
	}

	// The second vote overwrote the first
	req := httptest.NewRequest("GET", "/api/plugins/1/votes", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var summary struct {
		Total    float64  `json:"total"`
		UserVote *float64 `json:"userVote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.Total != -1 {
		t.Errorf("Expected total -1, got %v", summary.Total)
	}
	if summary.UserVote == nil || *summary.UserVote != -1 {
		t.Error("Expected userVote -1")
	}

	// An out-of-range value is rejected
	req = httptest.NewRequest("PUT", "/api/plugins/1/vote", bytes.NewReader([]byte(`{"value":5}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for value 5, got %d", resp.StatusCode)
	}

	// A body without a value is rejected instead of being read as a retraction
	req = httptest.NewRequest("PUT", "/api/plugins/1/vote", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for a missing value, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/plugins/1/votes", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.UserVote == nil || *summary.UserVote != -1 {
		t.Error("Expected the stored vote to survive a missing-value request")
	}
}

// TestGetVotesNotFound tests GET /api/plugins/:id/votes for a missing plugin
func TestGetVotesNotFound(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	voteHandler := &handlers.VoteHandler{DB: db, Resolver: appconfig.NewResolver(2 * time.Second)}
	app.Get("/api/plugins/:id/votes", voteHandler.GetVotes)

	req := httptest.NewRequest("GET", "/api/plugins/42/votes", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

// TestDeletePluginResponse tests the DELETE /api/plugins/:id success shape
func TestDeletePluginResponse(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "owner")
	seedPlugin(t, db, "Test Plugin", "owner")

	app := fiber.New()
	handler := &handlers.PluginHandler{DB: db, Resolver: appconfig.NewResolver(2 * time.Second)}
	app.Delete("/api/plugins/:id", asUser("owner"), handler.DeletePlugin)

	req := httptest.NewRequest("DELETE", "/api/plugins/1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["success"] != true {
		t.Error("Expected success=true in response")
	}

	// Deleting again reports success=false for the now-missing plugin
	req = httptest.NewRequest("DELETE", "/api/plugins/1", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["success"] != false {
		t.Error("Expected success=false for a missing plugin")
	}
}

// TestSetNicknameRoute tests PUT /api/user/nickname
func TestSetNicknameRoute(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "someone")

	app := fiber.New()
	userHandler := &handlers.UserHandler{DB: db}
	app.Put("/api/user/nickname", asUser("someone"), userHandler.SetNickname)
	app.Get("/api/users/:id", userHandler.GetUser)

	body := []byte(`{"nickname":"  Shiny  "}`)
	req := httptest.NewRequest("PUT", "/api/user/nickname", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/users/someone", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var user struct {
		NickName string `json:"nickName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.NickName != "Shiny" {
		t.Errorf("Expected trimmed nickname, got %q", user.NickName)
	}
}
