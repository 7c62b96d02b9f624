package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alt1hub/pluginhub/internal/services"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/alt1hub/pluginhub/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles user profile routes
type UserHandler struct {
	DB *gorm.DB
}

// GetUser handles GET /api/users/:id
// @Summary Get a user profile
// @Description Get the public profile of a user by id
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	user, err := services.GetUserByID(h.DB, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getUser")
	}
	if user == nil {
		return utils.NotFoundResponse(c, fmt.Sprintf("User '%s' not found", userID))
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// SetNickname handles PUT /api/user/nickname
// @Summary Set the caller's nickname
// @Description Update the display nickname of the authenticated user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body object true "Nickname"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /user/nickname [put]
func (h *UserHandler) SetNickname(c *fiber.Ctx) error {
	var body struct {
		Nickname string `json:"nickname"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "user.validation.input")
	}

	nickname := strings.TrimSpace(body.Nickname)
	if err := services.SetNickname(h.DB, callerID(c), nickname); err != nil {
		var customErr *types.CustomError
		if errors.As(err, &customErr) {
			return utils.ErrorResponse(c, customErr.Message, customErr.Code, customErr.Type)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "setNickname")
	}

	return utils.MutationSuccessResponse(c)
}
