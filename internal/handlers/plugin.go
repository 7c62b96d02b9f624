// plugin.go
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

package handlers

import (
	"errors"
	"fmt"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/services"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/alt1hub/pluginhub/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PluginHandler handles plugin catalog and CRUD routes
type PluginHandler struct {
	DB       *gorm.DB
	Resolver *appconfig.Resolver
}

// GetPlugins handles GET /api/plugins
// @Summary List the plugin catalog
// @Description Get one page of plugins ranked by net vote score, with optional name search and category filters
// @Tags Plugins
// @Accept json
// @Produce json
// @Param limit query int false "Page size (default 12, max 100)"
// @Param cursor query string false "Opaque cursor from a previous page"
// @Param search query string false "Case-insensitive name substring"
// @Param categories query string false "Comma-separated category filters (AND semantics)"
// @Success 200 {object} services.CatalogPage
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins [get]
func (h *PluginHandler) GetPlugins(c *fiber.Ctx) error {
	query := services.CatalogQuery{
		Limit:      parseLimit(c),
		Cursor:     c.Query("cursor"),
		Search:     c.Query("search"),
		Categories: parseCategories(c),
	}

	page, err := services.GetCatalogPage(c.Context(), h.DB, h.Resolver, callerID(c), query)
	if err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) && customErr.Type == "catalog.validation.cursor" {
			return utils.InvalidCursorResponse(c)
		}
		if errors.As(err, &customErr) {
			return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getPlugins")
	}

	return utils.SuccessResponse(c, page, fiber.StatusOK)
}

// GetPlugin handles GET /api/plugins/:id
// @Summary Get one plugin
// @Description Get the full detail of a single plugin including metadata and author
// @Tags Plugins
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {array} services.PluginDetail
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins/{id} [get]
func (h *PluginHandler) GetPlugin(c *fiber.Ctx) error {
	pluginID, err := parsePluginID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid plugin id", fiber.StatusBadRequest, "plugin.validation.id")
	}

	detail, err := services.GetPlugin(h.DB, pluginID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getPlugin")
	}

	return utils.SuccessResponse(c, detail, fiber.StatusOK)
}

// GetPluginsByAuthor handles GET /api/plugins/author/:id
// @Summary List plugins by author
// @Description Get every plugin created by a user, ranked like the catalog
// @Tags Plugins
// @Accept json
// @Produce json
// @Param id path string true "Author user ID"
// @Success 200 {array} services.CatalogEntry
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins/author/{id} [get]
func (h *PluginHandler) GetPluginsByAuthor(c *fiber.Ctx) error {
	authorID := c.Params("id")

	entries, err := services.GetPluginsByAuthor(c.Context(), h.DB, h.Resolver, callerID(c), authorID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getPluginsByAuthor")
	}

	return utils.SuccessResponse(c, entries, fiber.StatusOK)
}

// GetCreatedPlugins handles GET /api/user/plugins
// @Summary List the caller's plugins
// @Description Get every plugin created by the authenticated user, most recently updated first
// @Tags Plugins
// @Accept json
// @Produce json
// @Success 200 {array} models.Plugin
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/plugins [get]
func (h *PluginHandler) GetCreatedPlugins(c *fiber.Ctx) error {
	plugins, err := services.GetCreatedPlugins(h.DB, callerID(c))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getCreatedPlugins")
	}

	return utils.SuccessResponse(c, plugins, fiber.StatusOK)
}

// CreatePlugin handles POST /api/plugins
// @Summary Create a plugin
// @Description Register a plugin with its external config and readme URLs
// @Tags Plugins
// @Accept json
// @Produce json
// @Param body body services.PluginInput true "Plugin fields"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins [post]
func (h *PluginHandler) CreatePlugin(c *fiber.Ctx) error {
	var input services.PluginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plugin.validation.input")
	}

	if err := services.CreatePlugin(c.Context(), h.DB, h.Resolver, callerID(c), &input); err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) {
			return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createPlugin")
	}

	return utils.MutationSuccessResponse(c)
}

// UpdatePlugin handles PUT /api/plugins/:id
// @Summary Update a plugin
// @Description Rewrite a plugin owned by the caller, replacing its metadata wholesale
// @Tags Plugins
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Param body body services.PluginInput true "Plugin fields"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins/{id} [put]
func (h *PluginHandler) UpdatePlugin(c *fiber.Ctx) error {
	pluginID, err := parsePluginID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid plugin id", fiber.StatusBadRequest, "plugin.validation.id")
	}

	var input services.PluginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plugin.validation.input")
	}

	if err := services.UpdatePlugin(c.Context(), h.DB, h.Resolver, callerID(c), pluginID, &input); err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) {
			return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updatePlugin")
	}

	return utils.MutationSuccessResponse(c)
}

// DeletePlugin handles DELETE /api/plugins/:id
// @Summary Delete a plugin
// @Description Delete a plugin owned by the caller together with its votes and metadata
// @Tags Plugins
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins/{id} [delete]
func (h *PluginHandler) DeletePlugin(c *fiber.Ctx) error {
	pluginID, err := parsePluginID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid plugin id", fiber.StatusBadRequest, "plugin.validation.id")
	}

	deleted, err := services.DeletePlugin(h.DB, callerID(c), pluginID)
	if err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) {
			return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
		}
		return utils.ErrorResponse(c, fmt.Sprintf("Failed to delete plugin: %v", err), fiber.StatusInternalServerError, "deletePlugin")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": deleted})
}
