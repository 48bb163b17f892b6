package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByIDAndToken finds a user holding the given token
func (r *GormUserRepository) FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_tokens ON user_tokens.user_id = users.id").
		Where("users.id = ? AND user_tokens.token = ?", id, token).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// UpdateProfile updates the mutable profile columns
func (r *GormUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).
		Model(user).
		Select("name", "email", "age", "password", "updated_at").
		Updates(user)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddToken stores a new session token
func (r *GormUserRepository) AddToken(ctx context.Context, userID, token string) error {
	return translateError(r.db.WithContext(ctx).Create(&models.UserToken{
		UserID: userID,
		Token:  token,
	}).Error)
}

// RemoveToken deletes one session token
func (r *GormUserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.UserToken{}).Error)
}

// ClearTokens deletes all session tokens of a user
func (r *GormUserRepository) ClearTokens(ctx context.Context, userID string) error {
	return translateError(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserToken{}).Error)
}

// SetAvatar replaces or clears the avatar
func (r *GormUserRepository) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	var value interface{} = avatar
	if avatar == nil {
		value = gorm.Expr("NULL")
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("avatar", value)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a user and its tokens
func (r *GormUserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserToken{}).Error; err != nil {
			return translateError(err)
		}

		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicateKey, err)
	default:
		return err
	}
}
