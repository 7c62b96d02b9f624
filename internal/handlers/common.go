// common.go
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
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseCategories extracts category filters from query parameters,
// supporting both multiple 'categories' keys and comma-separated values.
func parseCategories(c *fiber.Ctx) []string {
	categoryMap := make(map[string]struct{})

	// Visit all query arguments to collect multiple 'categories' parameters
	args := c.Context().QueryArgs()
	for key, value := range args.All() {
		if string(key) == "categories" {
			// Split by comma in case the value itself is comma-separated
			vals := strings.Split(string(value), ",")
			for _, v := range vals {
				v = strings.TrimSpace(v)
				if v != "" {
					categoryMap[v] = struct{}{}
				}
			}
		}
	}

	if len(categoryMap) == 0 {
		return nil
	}

	categories := make([]string, 0, len(categoryMap))
	for k := range categoryMap {
		categories = append(categories, k)
	}

	return categories
}

// parseLimit reads the 'limit' query parameter; 0 means "use the default".
func parseLimit(c *fiber.Ctx) int {
	raw := c.Query("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// parsePluginID parses the :id path parameter as a plugin id.
func parsePluginID(c *fiber.Ctx) (uint64, error) {
	return strconv.ParseUint(c.Params("id"), 10, 64)
}

// callerID returns the authenticated user id from context, or "" when the
// request is anonymous.
func callerID(c *fiber.Ctx) string {
	if id, ok := c.Locals("userID").(string); ok {
		return id
	}
	return ""
}
