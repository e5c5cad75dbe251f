package repositories

import (
	"MediLink/cache"
	"MediLink/models"
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"
)

const (
	NotificationCountExpiry = 30 * time.Second
	MaxNotificationLimit    = 50
)

func notificationCountKey(userID int64) string {
	return fmt.Sprintf("notification_count:%d", userID)
}

type NotificationRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewNotificationRepository(db *gorm.DB, cache *cache.Cache) *NotificationRepository {
	return &NotificationRepository{db: db, cache: cache}
}

// Create appends a notification row. Notifications produced by appointment
// and message transactions are written inside those transactions instead;
// this path serves the standalone producers (doctor approval, admin actions).
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if err := r.cache.Delete(ctx, notificationCountKey(notification.UserID)); err != nil {
		log.Printf("Failed to invalidate notification count cache: %v", err)
	}
	return nil
}

// Unread returns the newest unread notifications for a user, capped at limit.
func (r *NotificationRepository) Unread(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	var notifications []models.Notification
	err := r.db.
		Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips a batch of the recipient's notifications to read. The flag
// only moves false to true, and rows belonging to other users are ignored.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID int64, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&models.Notification{}).
		Where("id IN ? AND user_id = ? AND is_read = ?", ids, userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	if err := r.cache.Delete(ctx, notificationCountKey(userID)); err != nil {
		log.Printf("Failed to invalidate notification count cache: %v", err)
	}
	return nil
}

// UnreadCount returns the badge count, served from a short-lived cache.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	cacheKey := notificationCountKey(userID)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
			return count, nil
		}
	}

	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, strconv.FormatInt(count, 10), NotificationCountExpiry); err != nil {
		log.Printf("Failed to set notification count cache: %v", err)
	}
	return count, nil
}
