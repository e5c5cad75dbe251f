package repositories

import (
	"MediLink/models"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// PortalStats is the admin reporting snapshot: row counts only, no export
// formatting.
type PortalStats struct {
	AppointmentsByStatus map[string]int64 `json:"appointments_by_status"`
	UsersByRole          map[string]int64 `json:"users_by_role"`
	OpenConversations    int64            `json:"open_conversations"`
	PendingDoctors       int64            `json:"pending_doctors"`
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Stats(ctx context.Context) (*PortalStats, error) {
	stats := PortalStats{
		AppointmentsByStatus: make(map[string]int64),
		UsersByRole:          make(map[string]int64),
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var appointmentCounts []statusCount
	err := r.db.Model(&models.Appointment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&appointmentCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}
	for _, row := range appointmentCounts {
		stats.AppointmentsByStatus[row.Status] = row.Count
	}

	type roleCount struct {
		Name  string
		Count int64
	}
	var userCounts []roleCount
	err = r.db.Model(&models.User{}).
		Select("roles.name, count(*) as count").
		Joins("JOIN roles ON roles.id = users.role_id").
		Group("roles.name").
		Scan(&userCounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for _, row := range userCounts {
		stats.UsersByRole[row.Name] = row.Count
	}

	err = r.db.Model(&models.Conversation{}).
		Where("status = ?", models.ConversationOpen).
		Count(&stats.OpenConversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count conversations: %w", err)
	}

	err = r.db.Model(&models.DoctorProfile{}).
		Where("is_approved = ?", false).
		Count(&stats.PendingDoctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending doctors: %w", err)
	}

	return &stats, nil
}
