package middleware

import (
	"fmt"
	"log"

	"github.com/alt1hub/pluginhub/internal/config"
	"github.com/alt1hub/pluginhub/internal/services"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var userRoles = []string{"user"}

// RequireUser validates that the request carries a valid user session.
// The identity is mirrored into the local users table and the user id is
// stored in context under "userID".
func RequireUser(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := authenticate(c, cfg, db)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: err.Error(),
				Type:    "user.authorization",
			}
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalUser resolves the caller's identity when a valid session cookie is
// present and continues anonymously when it is not. Public reads use this so
// signed-in callers see their own votes.
func OptionalUser(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := authenticate(c, cfg, db)
		if err == nil {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}

// authenticate runs the cookie through the Authorizer session check and syncs
// the profile locally. The Authorizer client is initialized lazily from the
// first authenticated request, which supplies the redirect scheme and host.
func authenticate(c *fiber.Ctx, cfg *config.Config, db *gorm.DB) (string, error) {
	session := c.Cookies("cookie_session")
	if session == "" {
		return "", fmt.Errorf("authorizer cookie \"cookie_session\" not found")
	}

	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			log.Printf("Authorizer initialization failed: %v", err)
			return "", fmt.Errorf("authorizer unavailable")
		}
	}

	profile, err := services.ValidateSession(session, userRoles)
	if err != nil {
		return "", fmt.Errorf("invalid session: %v", err)
	}

	userID, err := services.SyncUser(db, profile)
	if err != nil {
		log.Printf("User sync failed: %v", err)
		return "", fmt.Errorf("failed to resolve user identity")
	}

	return userID, nil
}
