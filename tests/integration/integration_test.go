package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/database"
	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/alt1hub/pluginhub/internal/services"
	"github.com/alt1hub/pluginhub/tests/helpers"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestWithPostgreSQL exercises the catalog and vote paths against a real
// PostgreSQL container, covering the dialect the service deploys on.
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg, terminate := helpers.StartPostgres(t)
	defer terminate()

	// Wait for database to be ready
	time.Sleep(3 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("VoteUpsertConflict", func(t *testing.T) {
		testVoteUpsertConflict(t, db)
	})

	t.Run("CatalogPagination", func(t *testing.T) {
		testCatalogPagination(t, db)
	})
}

func seedUser(t *testing.T, db *gorm.DB, name string) string {
	user := models.User{
		ID:    uuid.New().String(),
		Name:  name,
		Email: name + "@example.com",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user.ID
}

func seedPlugin(t *testing.T, db *gorm.DB, name, createdByID string) uint64 {
	categories, err := models.CategoriesJSON(nil)
	if err != nil {
		t.Fatalf("Failed to encode categories: %v", err)
	}
	plugin := models.Plugin{
		Name:        name,
		Categories:  categories,
		Status:      models.StatusPublished,
		CreatedByID: createdByID,
	}
	if err := db.Create(&plugin).Error; err != nil {
		t.Fatalf("Failed to seed plugin: %v", err)
	}
	return plugin.ID
}

// testVoteUpsertConflict verifies the ON CONFLICT vote upsert against the
// real unique constraint.
func testVoteUpsertConflict(t *testing.T, db *gorm.DB) {
	user := seedUser(t, db, "voter")
	plugin := seedPlugin(t, db, "Upsert Target", user)

	for _, value := range []int{1, 1, -1} {
		if err := services.SetVote(db, user, plugin, value); err != nil {
			t.Fatalf("SetVote(%d) failed: %v", value, err)
		}
	}

	var count int64
	if err := db.Model(&models.Vote{}).Where("plugin_id = ?", plugin).Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected one vote row, got %d", count)
	}

	summary, err := services.GetVotes(db, user, plugin)
	if err != nil {
		t.Fatalf("GetVotes failed: %v", err)
	}
	if summary.Total != -1 {
		t.Errorf("Expected total -1 after the final vote, got %d", summary.Total)
	}
}

// testCatalogPagination walks the catalog with ties on the real dialect,
// checking the HAVING bound and id exclusion set together.
func testCatalogPagination(t *testing.T, db *gorm.DB) {
	author := seedUser(t, db, "author")
	voter := seedUser(t, db, "pager-voter")

	const total = 7
	created := make(map[uint64]bool, total)
	for i := 0; i < total; i++ {
		id := seedPlugin(t, db, "Paged Plugin", author)
		created[id] = false
	}

	// Push one plugin above the tie so the boundary crosses scores
	for id := range created {
		if err := services.SetVote(db, voter, id, 1); err != nil {
			t.Fatalf("SetVote failed: %v", err)
		}
		break
	}

	resolver := appconfig.NewResolver(2 * time.Second)
	cursor := ""
	pages := 0
	for {
		page, err := services.GetCatalogPage(context.Background(), db, resolver, "", services.CatalogQuery{
			Limit:  3,
			Cursor: cursor,
			Search: "Paged Plugin",
		})
		if err != nil {
			t.Fatalf("GetCatalogPage failed on page %d: %v", pages, err)
		}
		pages++
		if pages > total {
			t.Fatal("Pagination did not terminate")
		}

		for _, entry := range page.Plugins {
			id := entry.Data.PluginID
			seen, ok := created[id]
			if !ok {
				t.Fatalf("Unknown plugin id %d in page", id)
			}
			if seen {
				t.Fatalf("Plugin %d appeared twice", id)
			}
			created[id] = true
		}

		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	for id, seen := range created {
		if !seen {
			t.Errorf("Plugin %d was never returned", id)
		}
	}
}
