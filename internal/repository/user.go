package repository

import (
	"context"
	"time"

	"github.com/pawhaven/platform/internal/model"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByID")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by ID").
			Int("user_id", int(id)).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByEmail finds a user by email (stored lowercased)
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByEmail")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by email").
			String("email", email).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// GetByUsername finds a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "GetByUsername")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get user by username").
			String("username", username).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &user, nil
}

// CreateWithShelter inserts the user and, for shelter accounts, the shelter
// profile referencing it, inside one transaction. Either both rows persist
// or neither does.
func (r *UserRepository) CreateWithShelter(ctx context.Context, user *model.User, shelter *model.Shelter) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CreateWithShelter")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if shelter != nil {
			shelter.UserID = user.ID
			if err := tx.Create(shelter).Error; err != nil {
				return err
			}
		}
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			String("role", user.Role).
			Duration(duration).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "User created successfully").
		String("email", user.Email).
		String("role", user.Role).
		Int("user_id", int(user.ID)).
		Duration(duration).
		Log()

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateLastLogin")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("last_login", time.Now())
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update last login").
			Int("user_id", int(id)).
			Err(result.Error).
			Log()
		return result.Error
	}
	return nil
}

// UpdateRememberToken stores the remember-token hash and expiry.
// An empty hash with a nil expiry clears the token.
func (r *UserRepository) UpdateRememberToken(ctx context.Context, id uint, tokenHash string, expiresAt *time.Time) error {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "UpdateRememberToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"remember_token_hash":       tokenHash,
		"remember_token_expires_at": expiresAt,
	})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update remember token").
			Int("user_id", int(id)).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}
	if result.RowsAffected == 0 {
		logger.WarnWithContext(ctx, "No user found to update remember token").
			Int("user_id", int(id)).
			Log()
		return gorm.ErrRecordNotFound
	}

	return nil
}

// FindByRememberToken finds the user whose stored hash matches the presented
// token. Hashes are bcrypt, so candidates are scanned and compared.
func (r *UserRepository) FindByRememberToken(ctx context.Context, token string) (*model.User, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "FindByRememberToken")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	start := time.Now()
	var users []model.User

	result := r.db.WithContext(ctx).
		Where("remember_token_hash IS NOT NULL AND remember_token_hash != ''").
		Find(&users)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to query users with remember tokens").
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	for _, user := range users {
		if err := bcrypt.CompareHashAndPassword([]byte(user.RememberTokenHash), []byte(token)); err == nil {
			return &user, nil
		}
	}

	logger.DebugWithContext(ctx, "No matching remember token found").
		Duration(duration).
		Log()

	return nil, gorm.ErrRecordNotFound
}

// CountShelters counts registered shelter profiles
func (r *UserRepository) CountShelters(ctx context.Context) (int64, error) {
	ctx = context.WithValue(ctx, ctxutil.FunctionKey, "CountShelters")
	ctx = context.WithValue(ctx, ctxutil.ModuleKey, "repository")

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Shelter{}).Count(&count).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count shelters").
			Err(err).
			Log()
		return 0, err
	}
	return count, nil
}
