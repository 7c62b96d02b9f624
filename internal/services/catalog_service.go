// catalog_service.go
//
// PluginHub - a catalog and voting service for Alt1 overlay plugins
//
// This file is part of pluginhub.
// pluginhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// pluginhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with pluginhub.
// If not, see <https://www.gnu.org/licenses/>.

package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// Catalog page size bounds
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
)

// CatalogQuery is one page request against the public plugin catalog.
type CatalogQuery struct {
	Limit      int
	Cursor     string
	Search     string
	Categories []string
}

// CatalogRow is one aggregate row of the catalog: plugin identity plus its
// vote sums and the calling user's own vote. UserVote is nil for anonymous
// callers and for stored votes of value 0 (a retracted vote reads as no vote).
type CatalogRow struct {
	PluginID   uint64         `json:"pluginId"`
	Name       string         `json:"name"`
	AppConfig  string         `json:"appConfig"`
	Upvotes    int64          `json:"upvotes"`
	Downvotes  int64          `json:"downvotes"`
	Total      int64          `json:"total"`
	UserVote   *int           `json:"userVote"`
	Categories datatypes.JSON `json:"categories"`
}

// CatalogEntry pairs a catalog row with its resolved external config.
// AppConfig is nil when resolution failed; the row is never dropped for it.
type CatalogEntry struct {
	Data      CatalogRow        `json:"data"`
	AppConfig *appconfig.Config `json:"appConfig"`
}

// CatalogPage is one page of results plus the cursor to resume from.
type CatalogPage struct {
	Plugins    []CatalogEntry `json:"plugins"`
	NextCursor *string        `json:"nextCursor,omitempty"`
}

// PageCursor carries the last seen score boundary and the plugin ids already
// emitted at that score. Ordering by score alone is not monotonic under ties,
// so the query must exclude those exact ids in addition to bounding the score.
type PageCursor struct {
	Total int64    `json:"total"`
	Seen  []uint64 `json:"seen"`
}

// predicate is one filter clause with its bind arguments. The planner builds
// explicit where/having lists and compiles them onto the query afterwards.
type predicate struct {
	expr string
	args []interface{}
}

// DecodeCursor parses an opaque catalog cursor. A malformed cursor is
// rejected rather than silently restarting from the first page.
func DecodeCursor(raw string) (*PageCursor, error) {
	if raw == "" {
		return nil, nil
	}
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid pagination cursor",
			Type:    "catalog.validation.cursor",
		}
	}
	var cur PageCursor
	if err := json.Unmarshal(data, &cur); err != nil {
		return nil, &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Invalid pagination cursor",
			Type:    "catalog.validation.cursor",
		}
	}
	return &cur, nil
}

// EncodeCursor serializes a cursor into its opaque wire form.
func EncodeCursor(cur PageCursor) string {
	data, _ := json.Marshal(cur)
	return base64.URLEncoding.EncodeToString(data)
}

// GetCatalogPage produces one page of the public plugin catalog: filtered,
// ranked by net vote score (descending, plugin id ascending on ties),
// paginated with a resumable cursor, and enriched with each row's external
// config document.
func GetCatalogPage(ctx context.Context, db *gorm.DB, resolver *appconfig.Resolver, callerID string, q CatalogQuery) (*CatalogPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	cursor, err := DecodeCursor(q.Cursor)
	if err != nil {
		return nil, err
	}

	var wheres, havings []predicate

	if cursor != nil {
		havings = append(havings, predicate{
			expr: "COALESCE(SUM(votes.value), 0) <= ?",
			args: []interface{}{cursor.Total},
		})
		if len(cursor.Seen) > 0 {
			wheres = append(wheres, predicate{
				expr: "plugins.id NOT IN ?",
				args: []interface{}{cursor.Seen},
			})
		}
	}

	if q.Search != "" {
		wheres = append(wheres, predicate{
			expr: "LOWER(plugins.name) LIKE ?",
			args: []interface{}{"%" + strings.ToLower(q.Search) + "%"},
		})
	}

	// Containment is AND-semantics: every requested category must be present.
	// Categories are stored as a JSON array of closed-enum strings, so a
	// quoted-substring match per tag is an exact tag match on every dialect.
	for _, cat := range q.Categories {
		if !models.ValidCategory(cat) {
			return nil, &types.CustomError{
				Code:    fiber.StatusBadRequest,
				Message: fmt.Sprintf("Unknown category %q", cat),
				Type:    "catalog.validation.category",
			}
		}
		wheres = append(wheres, predicate{
			expr: "plugins.categories LIKE ?",
			args: []interface{}{`%"` + cat + `"%`},
		})
	}

	rows, err := runAggregateQuery(db, callerID, wheres, havings, limit+1)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}

	var nextCursor *string
	if len(rows) > limit {
		rows = rows[:limit]
		boundary := rows[limit-1]

		next := PageCursor{Total: boundary.Total}
		if cursor != nil && cursor.Total == boundary.Total {
			// The tie run spans pages; keep excluding everything already emitted at this score.
			next.Seen = append(next.Seen, cursor.Seen...)
		}
		for _, r := range rows {
			if r.Total == boundary.Total {
				next.Seen = append(next.Seen, r.PluginID)
			}
		}
		encoded := EncodeCursor(next)
		nextCursor = &encoded
	}

	page := &CatalogPage{
		Plugins:    enrich(ctx, resolver, rows),
		NextCursor: nextCursor,
	}
	return page, nil
}

// GetPluginsByAuthor returns every plugin created by authorID, ranked like
// the catalog and enriched, without pagination.
func GetPluginsByAuthor(ctx context.Context, db *gorm.DB, resolver *appconfig.Resolver, callerID, authorID string) ([]CatalogEntry, error) {
	wheres := []predicate{{expr: "plugins.created_by_id = ?", args: []interface{}{authorID}}}

	rows, err := runAggregateQuery(db, callerID, wheres, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("author catalog query failed: %w", err)
	}

	return enrich(ctx, resolver, rows), nil
}

// runAggregateQuery compiles the predicate lists onto the plugins/votes
// aggregate query and scans the result. limit 0 means unbounded.
func runAggregateQuery(db *gorm.DB, callerID string, wheres, havings []predicate, limit int) ([]CatalogRow, error) {
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

	tx := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Model(&models.Plugin{}).
		Clauses(hints.CommentBefore("select", "pluginhub:catalog")).
		Select(selectExpr, selectArgs...).
		Joins("LEFT JOIN votes ON votes.plugin_id = plugins.id").
		Group("plugins.id, plugins.name, plugins.app_config, plugins.categories")

	for _, p := range wheres {
		tx = tx.Where(p.expr, p.args...)
	}
	for _, p := range havings {
		tx = tx.Having(p.expr, p.args...)
	}

	tx = tx.Order("total DESC, plugins.id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []CatalogRow
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}

	normalizeUserVotes(rows)
	return rows, nil
}

// enrich resolves each row's external config concurrently; rows whose
// resolution fails keep a nil config and stay in the page.
func enrich(ctx context.Context, resolver *appconfig.Resolver, rows []CatalogRow) []CatalogEntry {
	urls := make([]string, len(rows))
	for i, r := range rows {
		urls[i] = r.AppConfig
	}
	configs := resolver.ResolveAll(ctx, urls)

	entries := make([]CatalogEntry, len(rows))
	for i, r := range rows {
		entries[i] = CatalogEntry{Data: r, AppConfig: configs[i]}
	}
	return entries
}

// normalizeUserVotes collapses a stored vote of value 0 to "no vote". The row
// keeps its uniqueness slot in the votes table; only the surface hides it.
func normalizeUserVotes(rows []CatalogRow) {
	for i := range rows {
		if rows[i].UserVote != nil && *rows[i].UserVote == 0 {
			rows[i].UserVote = nil
		}
	}
}
