package services

import (
	"fmt"
	"log"
	"sync"

	"github.com/alt1hub/pluginhub/internal/config"
	"github.com/alt1hub/pluginhub/internal/models"
	"github.com/alt1hub/pluginhub/internal/utils"
	"github.com/authorizerdev/authorizer-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton pattern)
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		// Ping the Authorizer service first
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Printf("Initializing Authorizer: authorizerURL=%s, clientID=%s, redirectURL=%s",
			cfg.AuthzURL, cfg.AuthzClientID, redirectURL)

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateSession validates a session cookie for the given roles and returns
// the Authorizer profile of the caller.
func ValidateSession(cookie string, roles []string) (*authorizer.User, error) {
	if authClient == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	// Convert roles to []*string
	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}

	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	return res.User, nil
}

// SyncUser mirrors the validated Authorizer profile into the local users
// table so plugin and vote rows have a stable creator reference. The local
// nickname is user mutable and never overwritten from the profile.
func SyncUser(db *gorm.DB, profile *authorizer.User) (string, error) {
	if profile == nil || profile.ID == "" {
		return "", fmt.Errorf("authorizer profile has no id")
	}

	name := profile.Email
	username := ""
	if profile.PreferredUsername != "" {
		name = profile.PreferredUsername
		username = profile.PreferredUsername
	}
	image := ""
	if profile.Picture != nil {
		image = *profile.Picture
	}

	user := models.User{
		ID:       profile.ID,
		Name:     name,
		Email:    profile.Email,
		Image:    image,
		Username: username,
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "image", "username"}),
	}).Create(&user).Error
	if err != nil {
		return "", fmt.Errorf("failed to sync user %s: %w", profile.ID, err)
	}

	return profile.ID, nil
}
