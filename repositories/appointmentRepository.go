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
	AppointmentCacheExpiry = 24 * time.Hour
)

type AppointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) *AppointmentRepository {
	return &AppointmentRepository{db: db, cache: cache}
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if !models.ValidAppointmentStatus(appointment.Status) {
		return ErrInvalidStatus
	}
	if err := r.db.Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	r.invalidate(ctx, appointment.PatientID, appointment.DoctorID)
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		First(&appointment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// ListForUser returns the appointments visible to one participant, ordered
// by (date, start_time).
func (r *AppointmentRepository) ListForUser(ctx context.Context, column string, userID int64) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := fmt.Sprintf("appointments_cache:%s:%d", column, userID)
	var cached []models.Appointment
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get appointments from cache: %v", err)
	}

	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Where(fmt.Sprintf("%s = ?", column), userID).
		Order("date, start_time").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, appointments, AppointmentCacheExpiry); err != nil {
		log.Printf("Failed to set appointments in cache: %v", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) ListAll(ctx context.Context) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, username, first_name, last_name")
		}).
		Order("date, start_time").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus sets an appointment's status on behalf of actorID.
//
// The status write, the patient notification, and the audit entry commit in
// a single transaction: either all three land or none do. For a doctor the
// row match includes doctor_id, so an appointment owned by another doctor
// and a missing appointment fail the same way (zero rows affected), and the
// caller cannot tell the two apart. Admins may update any appointment.
//
// Statuses are plain set-to-value writes; setting the same status twice
// succeeds both times and produces a notification each time.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, appointmentID uint, newStatus string, actorID int64, actorRole string, ip, userAgent string) error {
	if !models.ValidAppointmentStatus(newStatus) {
		return ErrInvalidStatus
	}
	if actorRole != models.RoleDoctor && actorRole != models.RoleAdmin {
		return ErrNotAuthorized
	}

	var patientID int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Appointment{}).Where("id = ?", appointmentID)
		if actorRole == models.RoleDoctor {
			query = query.Where("doctor_id = ?", actorID)
		}
		res := query.Update("status", newStatus)
		if res.Error != nil {
			return fmt.Errorf("failed to update appointment status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Not found and not owned are indistinguishable here.
			return ErrNotAuthorized
		}

		var appointment models.Appointment
		if err := tx.Select("id, patient_id, doctor_id").First(&appointment, appointmentID).Error; err != nil {
			return fmt.Errorf("failed to load appointment: %w", err)
		}
		patientID = appointment.PatientID

		notification := models.Notification{
			UserID:  appointment.PatientID,
			Title:   "Appointment " + statusTitle(newStatus),
			Message: fmt.Sprintf("Your appointment has been marked %s.", newStatus),
			Link:    fmt.Sprintf("/appointments/%d", appointmentID),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}

		audit := models.AuditLogEntry{
			UserID:        actorID,
			Action:        "update_status",
			TableAffected: models.Appointment{}.TableName(),
			RecordID:      int64(appointmentID),
			IP:            ip,
			UserAgent:     userAgent,
		}
		if err := tx.Create(&audit).Error; err != nil {
			return fmt.Errorf("failed to create audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, patientID, actorID)
	if err := r.cache.Delete(ctx, notificationCountKey(patientID)); err != nil {
		log.Printf("Failed to invalidate notification count cache: %v", err)
	}
	return nil
}

func statusTitle(status string) string {
	switch status {
	case models.AppointmentScheduled:
		return "Scheduled"
	case models.AppointmentCompleted:
		return "Completed"
	case models.AppointmentCancelled:
		return "Cancelled"
	}
	return status
}

func (r *AppointmentRepository) invalidate(ctx context.Context, patientID, doctorID int64) {
	keys := []string{
		fmt.Sprintf("appointments_cache:patient_id:%d", patientID),
		fmt.Sprintf("appointments_cache:doctor_id:%d", doctorID),
	}
	if err := r.cache.DeleteBatch(ctx, keys...); err != nil {
		log.Printf("Failed to invalidate appointment caches: %v", err)
	}
}

// HasAppointmentBetween reports whether the doctor has any appointment with
// the patient. Used to decide whether a doctor is "treating" a patient.
func (r *AppointmentRepository) HasAppointmentBetween(ctx context.Context, doctorID, patientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND patient_id = ?", doctorID, patientID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check treating relationship: %w", err)
	}
	return count > 0, nil
}
