package repositories

import (
	"MediLink/models"
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Append writes one audit row and propagates failures. Use Record for the
// swallow-on-failure paths.
func (r *AuditLogRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Record appends an audit row best-effort. The appointment status update is
// the one place audit writes share a transaction with the primary mutation;
// everywhere else an audit failure is logged and swallowed so it can never
// abort a user-facing action that otherwise succeeded.
func (r *AuditLogRepository) Record(ctx context.Context, actorID int64, action, tableAffected string, recordID int64, ip, userAgent string) {
	entry := models.AuditLogEntry{
		UserID:        actorID,
		Action:        action,
		TableAffected: tableAffected,
		RecordID:      recordID,
		IP:            ip,
		UserAgent:     userAgent,
	}
	if err := r.Append(ctx, &entry); err != nil {
		log.Printf("audit write failed (action=%s, record=%d): %v", action, recordID, err)
	}
}

// ListRecent returns the newest audit entries for the admin view.
func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.AuditLogEntry
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
