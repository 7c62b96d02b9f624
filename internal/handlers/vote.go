// vote.go
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

// VoteHandler handles vote routes
type VoteHandler struct {
	DB       *gorm.DB
	Resolver *appconfig.Resolver
}

// ManageVote handles PUT /api/plugins/:id/vote
// @Summary Set the caller's vote on a plugin
// @Description Record an upvote (1), downvote (-1) or retraction (0); repeating a value leaves the same end state
// @Tags Votes
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Param body body object true "Vote value"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins/{id}/vote [put]
func (h *VoteHandler) ManageVote(c *fiber.Ctx) error {
	pluginID, err := parsePluginID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid plugin id", fiber.StatusBadRequest, "plugin.validation.id")
	}

	var body struct {
		Value *types.FlexInt64 `json:"value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "vote.validation.input")
	}
	// A missing value must not be read as an implicit retraction.
	if body.Value == nil {
		return utils.ErrorResponse(c, "Vote value is required", fiber.StatusBadRequest, "vote.validation.input")
	}

	if err := services.SetVote(h.DB, callerID(c), pluginID, body.Value.Int()); err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) {
			return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "manageVote")
	}

	return utils.MutationSuccessResponse(c)
}

// GetVotes handles GET /api/plugins/:id/votes
// @Summary Get vote aggregates for a plugin
// @Description Get the upvote, downvote and net totals plus the caller's own vote
// @Tags Votes
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} services.VoteSummary
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins/{id}/votes [get]
func (h *VoteHandler) GetVotes(c *fiber.Ctx) error {
	pluginID, err := parsePluginID(c)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid plugin id", fiber.StatusBadRequest, "plugin.validation.id")
	}

	summary, err := services.GetVotes(h.DB, callerID(c), pluginID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getVotes")
	}
	if summary == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("Plugin %d not found", pluginID))
	}

	return utils.SuccessResponse(c, summary, fiber.StatusOK)
}

// GetTopVoted handles GET /api/plugins/top
// @Summary Get the top voted plugins
// @Description Get the highest net-score plugin for the trailing day, week and month
// @Tags Votes
// @Accept json
// @Produce json
// @Success 200 {object} services.TopVoted
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins/top [get]
func (h *VoteHandler) GetTopVoted(c *fiber.Ctx) error {
	top, err := services.GetTopVoted(c.Context(), h.DB, h.Resolver, callerID(c))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getTopVoted")
	}

	return utils.SuccessResponse(c, top, fiber.StatusOK)
}
