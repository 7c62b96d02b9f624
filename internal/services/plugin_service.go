// plugin_service.go
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
	"fmt"
	"net/url"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MetadataInput is one submitted metadata entry.
type MetadataInput struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PluginInput carries the user-submitted plugin fields for create and update.
type PluginInput struct {
	Name       string                        `json:"name"`
	AppConfig  string                        `json:"appConfig"`
	ReadMe     string                        `json:"readMe"`
	Metadata   types.FlexList[MetadataInput] `json:"metadata"`
	Categories types.FlexList[string]        `json:"categories"`
	Status     string                        `json:"status"`
}

// PluginDetail is the full public view of one plugin: row, metadata and author.
type PluginDetail struct {
	models.Plugin
	CreateByUser     string  `json:"createByUser"`
	CreateByNickName *string `json:"createByNickName"`
}

func validationError(message, errorType string) error {
	return &types.CustomError{
		Code:    fiber.StatusBadRequest,
		Message: message,
		Type:    errorType,
	}
}

// validatePluginInput checks the structural rules that do not need network access.
func validatePluginInput(input *PluginInput) error {
	if input.Name == "" {
		return validationError("Plugin name is required", "plugin.validation.name")
	}
	if !models.ValidStatus(input.Status) {
		return validationError(
			fmt.Sprintf("Status must be %q or %q", models.StatusInDevelopment, models.StatusPublished),
			"plugin.validation.status")
	}

	categories := input.Categories.Slice()
	if len(categories) > models.MaxCategories {
		return validationError(
			fmt.Sprintf("At most %d categories are allowed", models.MaxCategories),
			"plugin.validation.categories")
	}
	for _, cat := range categories {
		if !models.ValidCategory(cat) {
			return validationError(fmt.Sprintf("Unknown category %q", cat), "plugin.validation.categories")
		}
	}

	metadata := input.Metadata.Slice()
	if len(metadata) > models.MaxMetadata {
		return validationError(
			fmt.Sprintf("At most %d metadata entries are allowed", models.MaxMetadata),
			"plugin.validation.metadata")
	}
	seen := make(map[string]struct{}, len(metadata))
	for _, entry := range metadata {
		if entry.Name == "" {
			return validationError("Metadata entries need a name", "plugin.validation.metadata")
		}
		if _, dup := seen[entry.Name]; dup {
			return validationError(
				fmt.Sprintf("Duplicate metadata name %q", entry.Name),
				"plugin.validation.metadata")
		}
		seen[entry.Name] = struct{}{}

		switch entry.Type {
		case models.MetadataTypeSupport:
			parsed, err := url.ParseRequestURI(entry.Value)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				return validationError(
					fmt.Sprintf("Metadata %q must be a valid URL", entry.Name),
					"plugin.validation.metadata")
			}
		case models.MetadataTypeInfo:
			// free text
		default:
			return validationError(
				fmt.Sprintf("Metadata type must be %q or %q", models.MetadataTypeSupport, models.MetadataTypeInfo),
				"plugin.validation.metadata")
		}
	}

	return nil
}

// validateExternalDocuments checks that the submitted URLs resolve to the
// required content: JSON for the app config, Markdown for the readme.
func validateExternalDocuments(ctx context.Context, resolver *appconfig.Resolver, input *PluginInput) error {
	if err := resolver.ValidateMarkdownURL(ctx, input.ReadMe); err != nil {
		return validationError("ReadMe needs to be Markdown", "plugin.validation.readme")
	}
	if err := resolver.ValidateJSONURL(ctx, input.AppConfig); err != nil {
		return validationError("AppConfig needs to be JSON", "plugin.validation.appconfig")
	}
	return nil
}

// CreatePlugin validates the submission and writes the plugin row plus its
// metadata rows in one transaction; a metadata failure rolls everything back.
func CreatePlugin(ctx context.Context, db *gorm.DB, resolver *appconfig.Resolver, callerID string, input *PluginInput) error {
	if err := validatePluginInput(input); err != nil {
		return err
	}
	if err := validateExternalDocuments(ctx, resolver, input); err != nil {
		return err
	}

	categories, err := models.CategoriesJSON(input.Categories.Slice())
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		plugin := models.Plugin{
			Name:        input.Name,
			AppConfig:   input.AppConfig,
			ReadMe:      input.ReadMe,
			Categories:  categories,
			Status:      input.Status,
			Disabled:    false,
			CreatedByID: callerID,
		}
		if err := tx.Create(&plugin).Error; err != nil {
			return fmt.Errorf("failed to create plugin: %w", err)
		}

		for _, entry := range input.Metadata.Slice() {
			row := models.PluginMetadata{
				PluginID:    plugin.ID,
				CreatedByID: callerID,
				Type:        entry.Type,
				Name:        entry.Name,
				Value:       entry.Value,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create plugin metadata: %w", err)
			}
		}
		return nil
	})
}

// UpdatePlugin rewrites a plugin owned by callerID and replaces its metadata
// wholesale inside the same transaction.
func UpdatePlugin(ctx context.Context, db *gorm.DB, resolver *appconfig.Resolver, callerID string, pluginID uint64, input *PluginInput) error {
	if err := validatePluginInput(input); err != nil {
		return err
	}
	if err := validateExternalDocuments(ctx, resolver, input); err != nil {
		return err
	}

	categories, err := models.CategoriesJSON(input.Categories.Slice())
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Plugin{}).
			Where("id = ? AND created_by_id = ?", pluginID, callerID).
			Updates(map[string]interface{}{
				"name":       input.Name,
				"app_config": input.AppConfig,
				"read_me":    input.ReadMe,
				"categories": categories,
				"status":     input.Status,
				"disabled":   false,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update plugin: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: fmt.Sprintf("Plugin %d not found or not owned by caller", pluginID),
				Type:    "plugin.authorization.owner",
			}
		}

		// Metadata is replaced wholesale on update.
		if err := tx.Where("plugin_id = ?", pluginID).Delete(&models.PluginMetadata{}).Error; err != nil {
			return fmt.Errorf("failed to clear plugin metadata: %w", err)
		}
		for _, entry := range input.Metadata.Slice() {
			row := models.PluginMetadata{
				PluginID:    pluginID,
				CreatedByID: callerID,
				Type:        entry.Type,
				Name:        entry.Name,
				Value:       entry.Value,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create plugin metadata: %w", err)
			}
		}
		return nil
	})
}

// DeletePlugin removes a plugin owned by callerID together with its votes and
// metadata rows in one transaction. A nonexistent plugin reports success
// false; a plugin owned by someone else is an authorization failure.
func DeletePlugin(db *gorm.DB, callerID string, pluginID uint64) (bool, error) {
	var plugin models.Plugin
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", pluginID).
		First(&plugin).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to load plugin %d: %w", pluginID, err)
	}
	if plugin.CreatedByID != callerID {
		return false, &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Plugin %d is not owned by caller", pluginID),
			Type:    "plugin.authorization.owner",
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plugin_id = ?", pluginID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plugin_id = ?", pluginID).Delete(&models.PluginMetadata{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Plugin{}, pluginID).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete plugin %d: %w", pluginID, err)
	}
	return true, nil
}

// GetPlugin loads the full detail of one plugin as a zero-or-one slice;
// absence is an empty result, not an error.
func GetPlugin(db *gorm.DB, pluginID uint64) ([]PluginDetail, error) {
	var plugin models.Plugin
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Preload("Metadata").
		Where("id = ?", pluginID).
		First(&plugin).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return []PluginDetail{}, nil
		}
		return nil, fmt.Errorf("failed to load plugin %d: %w", pluginID, err)
	}

	detail := PluginDetail{Plugin: plugin}

	var author models.User
	err = db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", plugin.CreatedByID).
		First(&author).Error
	if err == nil {
		detail.CreateByUser = author.Name
		if author.NickName != "" {
			nick := author.NickName
			detail.CreateByNickName = &nick
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load plugin author: %w", err)
	}

	return []PluginDetail{detail}, nil
}

// GetCreatedPlugins lists the caller's own plugins, most recently updated first.
func GetCreatedPlugins(db *gorm.DB, callerID string) ([]models.Plugin, error) {
	var plugins []models.Plugin
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("created_by_id = ?", callerID).
		Order("updated_at DESC").
		Find(&plugins).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list created plugins: %w", err)
	}
	return plugins, nil
}
