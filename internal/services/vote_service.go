package services

import (
	"context"
	"fmt"
	"time"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Top-voted trailing windows
const (
	DailyWindow   = 24 * time.Hour
	WeeklyWindow  = 7 * 24 * time.Hour
	MonthlyWindow = 30 * 24 * time.Hour
)

// VoteSummary is the aggregate vote state of one plugin. A plugin with no
// votes reads as all zeros. UserVote is nil for anonymous callers and for a
// stored vote of value 0.
type VoteSummary struct {
	PluginID  uint64 `json:"pluginId"`
	Name      string `json:"name"`
	AppConfig string `json:"appConfig"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	Total     int64  `json:"total"`
	UserVote  *int   `json:"userVote"`
}

// TopVoted holds the single highest net-score plugin per trailing window.
type TopVoted struct {
	DailyTop   *CatalogEntry `json:"dailyTop"`
	WeeklyTop  *CatalogEntry `json:"weeklyTop"`
	MonthlyTop *CatalogEntry `json:"monthlyTop"`
}

// SetVote records callerID's vote on a plugin as a single atomic
// insert-or-update on the (user, plugin) uniqueness constraint. Applying the
// same value twice leaves the same end state; there is no toggle logic here,
// retracting is the caller sending value 0.
func SetVote(db *gorm.DB, callerID string, pluginID uint64, value int) error {
	if value < -1 || value > 1 {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Vote value must be -1, 0 or 1",
			Type:    "vote.validation.value",
		}
	}

	var count int64
	if err := db.Model(&models.Plugin{}).Where("id = ?", pluginID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check plugin %d: %w", pluginID, err)
	}
	if count == 0 {
		return &types.CustomError{
			Code:    fiber.StatusNotFound,
			Message: fmt.Sprintf("Plugin %d not found", pluginID),
			Type:    "vote.notfound.plugin",
		}
	}

	vote := models.Vote{
		CreatedByID: callerID,
		PluginID:    pluginID,
		Value:       value,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "created_by_id"}, {Name: "plugin_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&vote).Error
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}
	return nil
}

// GetVotes computes the vote aggregates for one plugin at read time.
// A nonexistent plugin yields a nil summary, not an error.
func GetVotes(db *gorm.DB, callerID string, pluginID uint64) (*VoteSummary, error) {
	selectExpr := `plugins.id AS plugin_id, plugins.name AS name,
		plugins.app_config AS app_config,
		SUM(CASE WHEN votes.value = 1 THEN 1 ELSE 0 END) AS upvotes,
		SUM(CASE WHEN votes.value = -1 THEN 1 ELSE 0 END) AS downvotes,
		COALESCE(SUM(votes.value), 0) AS total, `
	var selectArgs []interface{}
	if callerID != "" {
		selectExpr += "MAX(CASE WHEN votes.created_by_id = ? THEN votes.value END) AS user_vote"
		selectArgs = append(selectArgs, callerID)
	} else {
		selectExpr += "NULL AS user_vote"
	}

	var summaries []VoteSummary
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Model(&models.Plugin{}).
		Select(selectExpr, selectArgs...).
		Joins("LEFT JOIN votes ON votes.plugin_id = plugins.id").
		Where("plugins.id = ?", pluginID).
		Group("plugins.id, plugins.name, plugins.app_config").
		Scan(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("vote aggregation failed: %w", err)
	}

	if len(summaries) == 0 {
		return nil, nil
	}

	summary := summaries[0]
	if summary.UserVote != nil && *summary.UserVote == 0 {
		summary.UserVote = nil
	}
	return &summary, nil
}

// GetTopVoted returns the highest net-score plugin for the trailing daily,
// weekly and monthly vote windows. Each window sums only the votes cast
// inside it, so the windows are independent of one another.
func GetTopVoted(ctx context.Context, db *gorm.DB, resolver *appconfig.Resolver, callerID string) (*TopVoted, error) {
	now := time.Now().UTC()

	daily, err := topSince(db, callerID, now.Add(-DailyWindow))
	if err != nil {
		return nil, err
	}
	weekly, err := topSince(db, callerID, now.Add(-WeeklyWindow))
	if err != nil {
		return nil, err
	}
	monthly, err := topSince(db, callerID, now.Add(-MonthlyWindow))
	if err != nil {
		return nil, err
	}

	top := &TopVoted{
		DailyTop:   enrichOne(ctx, resolver, daily),
		WeeklyTop:  enrichOne(ctx, resolver, weekly),
		MonthlyTop: enrichOne(ctx, resolver, monthly),
	}
	return top, nil
}

// topSince finds the plugin with the highest vote sum among votes cast at or
// after cutoff. Plugins without votes in the window do not compete.
func topSince(db *gorm.DB, callerID string, cutoff time.Time) (*CatalogRow, error) {
	selectExpr := `plugins.id AS plugin_id, plugins.name AS name,
		plugins.app_config AS app_config, plugins.categories AS categories,
		SUM(CASE WHEN votes.value = 1 THEN 1 ELSE 0 END) AS upvotes,
		SUM(CASE WHEN votes.value = -1 THEN 1 ELSE 0 END) AS downvotes,
		COALESCE(SUM(votes.value), 0) AS total, `
	var selectArgs []interface{}
	if callerID != "" {
		selectExpr += "MAX(CASE WHEN votes.created_by_id = ? THEN votes.value END) AS user_vote"
		selectArgs = append(selectArgs, callerID)
	} else {
		selectExpr += "NULL AS user_vote"
	}

	var rows []CatalogRow
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Model(&models.Plugin{}).
		Select(selectExpr, selectArgs...).
		Joins("JOIN votes ON votes.plugin_id = plugins.id").
		Where("votes.created_at >= ?", cutoff).
		Group("plugins.id, plugins.name, plugins.app_config, plugins.categories").
		Order("total DESC, plugins.id ASC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top-voted query failed: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	normalizeUserVotes(rows)
	return &rows[0], nil
}

// enrichOne resolves the external config for a single optional row.
func enrichOne(ctx context.Context, resolver *appconfig.Resolver, row *CatalogRow) *CatalogEntry {
	if row == nil {
		return nil
	}
	entries := enrich(ctx, resolver, []CatalogRow{*row})
	return &entries[0]
}
