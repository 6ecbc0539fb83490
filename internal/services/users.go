package services

import (
	"errors"
	"fmt"

	"scitalk/internal/db"
	"scitalk/internal/identity"
	"scitalk/internal/models"

	"gorm.io/gorm"
)

// EnsureUser finds the account for a resolved identity, creating it on first
// login. The DID is the stable key; handle and display name are refreshed on
// every login since they can change at the provider.
func EnsureUser(ident *identity.Identity) (*models.User, error) {
	var user models.User
	err := db.DB.Where("did = ?", ident.DID).First(&user).Error
	if err == nil {
		if user.Handle != ident.Handle || user.DisplayName != ident.DisplayName {
			user.Handle = ident.Handle
			user.DisplayName = ident.DisplayName
			if err := db.DB.Model(&user).Updates(map[string]interface{}{
				"handle":       ident.Handle,
				"display_name": ident.DisplayName,
			}).Error; err != nil {
				return nil, fmt.Errorf("refresh user profile: %w", err)
			}
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load user: %w", err)
	}

	user = models.User{
		DID:         ident.DID,
		Handle:      ident.Handle,
		DisplayName: ident.DisplayName,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		// Lost a race with a concurrent first login for the same DID
		if isDuplicateKey(err) {
			if err := db.DB.Where("did = ?", ident.DID).First(&user).Error; err != nil {
				return nil, fmt.Errorf("load user after race: %w", err)
			}
			return &user, nil
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// GetUserByHandle looks up a user for the public profile endpoint.
func GetUserByHandle(handle string) (*models.User, error) {
	var user models.User
	if err := db.DB.Where("handle = ?", handle).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
