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
	DoctorCacheExpiry = 24 * time.Hour
)

type DoctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) *DoctorRepository {
	return &DoctorRepository{db: db, cache: cache}
}

func (r *DoctorRepository) Create(ctx context.Context, profile *models.DoctorProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *DoctorRepository) GetByUserID(ctx context.Context, userID int64) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

// UpdateOwn lets a doctor edit their own profile fields. Approval state is
// admin-only and never touched here.
func (r *DoctorRepository) UpdateOwn(ctx context.Context, userID int64, specialization, availability string, fee float64) error {
	res := r.db.Model(&models.DoctorProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"specialization":   specialization,
			"availability":     availability,
			"consultation_fee": fee,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update doctor profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return r.cache.Delete(ctx, "approved_doctors_cache")
}

// ListApproved returns the doctors patients can book with, cached.
func (r *DoctorRepository) ListApproved(ctx context.Context) ([]models.DoctorProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := "approved_doctors_cache"
	var cached []models.DoctorProfile
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get doctors from cache: %v", err)
	}

	var profiles []models.DoctorProfile
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Where("is_approved = ?", true).
		Order("specialization, id").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approved doctors: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, profiles, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set doctors in cache: %v", err)
	}
	return profiles, nil
}

// ListPending returns unapproved doctor profiles for the admin queue.
func (r *DoctorRepository) ListPending(ctx context.Context) ([]models.DoctorProfile, error) {
	var profiles []models.DoctorProfile
	err := r.db.
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, email, first_name, last_name, created_at")
		}).
		Where("is_approved = ?", false).
		Order("created_at").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending doctors: %w", err)
	}
	return profiles, nil
}

// SetApproval flips the approval flag and returns the affected profile.
func (r *DoctorRepository) SetApproval(ctx context.Context, userID int64, approved bool) (*models.DoctorProfile, error) {
	res := r.db.Model(&models.DoctorProfile{}).
		Where("user_id = ?", userID).
		Update("is_approved", approved)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to set doctor approval: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	if err := r.cache.Delete(ctx, "approved_doctors_cache"); err != nil {
		log.Printf("Failed to invalidate doctor cache: %v", err)
	}
	return r.GetByUserID(ctx, userID)
}
