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
	SettingCacheExpiry = 5 * time.Minute
)

type SettingsRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewSettingsRepository(db *gorm.DB, cache *cache.Cache) *SettingsRepository {
	return &SettingsRepository{db: db, cache: cache}
}

// Get returns a setting value, served from a short-lived cache. Settings are
// read at request start (maintenance flag, timezone, poll interval) so the
// cache keeps them off the hot path.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	cacheKey := settingCacheKey(key)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		return cached, nil
	}

	var setting models.SystemSetting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	if err := r.cache.Set(ctx, cacheKey, setting.Value, SettingCacheExpiry); err != nil {
		log.Printf("Failed to cache setting %q: %v", key, err)
	}
	return setting.Value, nil
}

func (r *SettingsRepository) GetAll(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := r.db.Order("key").Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// Set upserts a setting and invalidates its cache entry.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	setting := models.SystemSetting{Key: key, Value: value}
	err := r.db.Where("key = ?", key).
		Assign(models.SystemSetting{Value: value}).
		FirstOrCreate(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return r.cache.Delete(ctx, settingCacheKey(key))
}

// MaintenanceMode reports whether the maintenance flag is on. Errors read as
// "off" so a cache or database hiccup cannot lock everyone out.
func (r *SettingsRepository) MaintenanceMode(ctx context.Context) bool {
	value, err := r.Get(ctx, models.SettingMaintenanceMode)
	if err != nil {
		return false
	}
	return value == "on" || value == "true" || value == "1"
}

func settingCacheKey(key string) string {
	return fmt.Sprintf("setting_cache:%s", key)
}
