package services

import (
	"fmt"

	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetUserByID loads one user's public profile; a missing user yields nil.
func GetUserByID(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return &user, nil
}

// SetNickname updates the caller's display nickname. The nickname lives only
// in the local users table and is never touched by profile syncs.
func SetNickname(db *gorm.DB, userID, nickname string) error {
	if len(nickname) > 64 {
		return &types.CustomError{
			Code:    fiber.StatusBadRequest,
			Message: "Nickname must be at most 64 characters",
			Type:    "user.validation.nickname",
		}
	}

	result := db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("nick_name", nickname)
	if result.Error != nil {
		return fmt.Errorf("failed to set nickname for %s: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &types.CustomError{
			Code:    fiber.StatusNotFound,
			Message: fmt.Sprintf("User %s not found", userID),
			Type:    "user.notfound",
		}
	}
	return nil
}
