package repositories

import (
	"MediLink/cache"
	"MediLink/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 24 * time.Hour
)

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserForLogin(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ValidateRoleID(ctx context.Context, roleID int64) (string, error)
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error
	UpdateUserProfile(ctx context.Context, userID int64, username, email, phone string) error
	SetVerified(ctx context.Context, userID int64, verified bool) error
	SetSuspended(ctx context.Context, userID int64, suspended bool) error
	GetAllUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, userID int64) error
	DeleteUserCache(ctx context.Context, identifier string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) getUser(ctx context.Context, cacheIdentifier string, query string, args ...interface{}) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getUserCacheKey(cacheIdentifier)
	var cached models.User
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get user from cache: %v", err)
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Select("id, username, email, role_id, first_name, last_name, phone, verified, suspended, created_at").
		Preload("Role", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, description")
		}).
		Where(query, args...).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.cache.SetJSON(ctx, cacheKey, user, UserCacheExpiry); err != nil {
		log.Printf("Failed to set user in cache: %v", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, username, "username = ?", username)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, email, "email = ?", email)
}

func (r *userRepository) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return r.getUser(ctx, fmt.Sprintf("%d", userID), "id = ?", userID)
}

// GetUserForLogin loads the user with the password column included. Never
// cached: the hash must not sit in Redis.
func (r *userRepository) GetUserForLogin(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.Select("id, username, email, password, role_id, verified, suspended, created_at").
		Preload("Role", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, description")
		}).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) ValidateRoleID(ctx context.Context, roleID int64) (string, error) {
	var role models.Role
	err := r.db.First(&role, roleID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("unknown role ID %d", roleID)
		}
		return "", fmt.Errorf("failed to validate role ID: %w", err)
	}
	return role.Name, nil
}

func (r *userRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepository) UpdateUserProfile(ctx context.Context, userID int64, username, email, phone string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"username": username,
		"email":    email,
		"phone":    phone,
	}).Error
}

func (r *userRepository) SetVerified(ctx context.Context, userID int64, verified bool) error {
	return r.setFlag(ctx, userID, "verified", verified)
}

func (r *userRepository) SetSuspended(ctx context.Context, userID int64, suspended bool) error {
	return r.setFlag(ctx, userID, "suspended", suspended)
}

func (r *userRepository) setFlag(ctx context.Context, userID int64, column string, value bool) error {
	res := r.db.Model(&models.User{}).Where("id = ?", userID).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.cache.Delete(ctx, r.getUserCacheKey(fmt.Sprintf("%d", userID)))
}

func (r *userRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id, username, email, role_id, first_name, last_name, verified, suspended, created_at").
		Preload("Role", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, description")
		}).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	res := r.db.Delete(&models.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.cache.Delete(ctx, r.getUserCacheKey(fmt.Sprintf("%d", userID)))
}

func (r *userRepository) DeleteUserCache(ctx context.Context, identifier string) error {
	return r.cache.Delete(ctx, r.getUserCacheKey(identifier))
}

func (r *userRepository) getUserCacheKey(identifier string) string {
	return fmt.Sprintf("user_cache:%s", identifier)
}
