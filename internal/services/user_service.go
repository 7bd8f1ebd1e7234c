package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "welth/internal/errors"
	"welth/internal/models"
)

// userService maps identity-provider accounts onto local users.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// SyncUser returns the local user for identity, creating it on first sight.
// An existing row is returned as-is; profile edits at the provider are not
// copied back.
func (s *userService) SyncUser(identity Identity) (*models.User, error) {
	if identity.ExternalID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	var user models.User
	err := s.db.Where("external_id = ?", identity.ExternalID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user = models.User{
		ExternalID: identity.ExternalID,
		Email:      strings.ToLower(identity.Email),
		Name:       identity.Name,
		ImageURL:   identity.ImageURL,
	}

	// Two first requests can race; the loser re-reads the winner's row.
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(&user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stored models.User
	if err := s.db.Where("external_id = ?", identity.ExternalID).First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}
