package services

import (
	"MediLink/database"
	"MediLink/models"
	"MediLink/repositories"
	"MediLink/utils"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type AppointmentService struct {
	repository *repositories.AppointmentRepository
	doctorRepo *repositories.DoctorRepository
	auditRepo  *repositories.AuditLogRepository
}

func NewAppointmentService(repository *repositories.AppointmentRepository, doctorRepo *repositories.DoctorRepository, auditRepo *repositories.AuditLogRepository) *AppointmentService {
	return &AppointmentService{repository: repository, doctorRepo: doctorRepo, auditRepo: auditRepo}
}

// Book creates an appointment for the acting patient. A per-slot lock keeps
// a double-submitted booking from inserting twice.
func (s *AppointmentService) Book(ctx context.Context, appointment *models.Appointment, ip, userAgent string) error {
	if err := utils.ValidateAppointmentData(*appointment); err != nil {
		return fmt.Errorf("invalid appointment data: %w", err)
	}

	// Only approved doctors are bookable.
	profile, err := s.doctorRepo.GetByUserID(ctx, appointment.DoctorID)
	if err != nil {
		return repositories.ErrNotFound
	}
	if !profile.IsApproved {
		return repositories.ErrNotFound
	}

	lockKey := fmt.Sprintf("booking_lock:%d_%s_%s", appointment.DoctorID, appointment.Date, appointment.StartTime)
	lockValue := uuid.New().String()
	locked, err := database.AcquireLockWithRetry(ctx, lockKey, lockValue, 10*time.Second, 3, 2*time.Second)
	if err != nil || !locked {
		return fmt.Errorf("failed to acquire booking lock: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	appointment.Status = models.AppointmentScheduled
	if err := s.repository.Create(ctx, appointment); err != nil {
		return err
	}

	s.auditRepo.Record(ctx, appointment.PatientID, "book_appointment",
		models.Appointment{}.TableName(), int64(appointment.ID), ip, userAgent)
	return nil
}

// GetByID enforces visibility: participants and admins only. A non-visible
// appointment reads as not found.
func (s *AppointmentService) GetByID(ctx context.Context, id uint, actorID int64, actorRole string) (*models.Appointment, error) {
	appointment, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != models.RoleAdmin && appointment.PatientID != actorID && appointment.DoctorID != actorID {
		return nil, repositories.ErrNotFound
	}
	return appointment, nil
}

func (s *AppointmentService) ListForPatient(ctx context.Context, patientID int64) ([]models.Appointment, error) {
	return s.repository.ListForUser(ctx, "patient_id", patientID)
}

func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID int64) ([]models.Appointment, error) {
	return s.repository.ListForUser(ctx, "doctor_id", doctorID)
}

func (s *AppointmentService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return s.repository.ListAll(ctx)
}

// UpdateStatus delegates to the repository, where the status write, the
// patient notification, and the audit entry share one transaction.
func (s *AppointmentService) UpdateStatus(ctx context.Context, appointmentID uint, newStatus string, actorID int64, actorRole, ip, userAgent string) error {
	return s.repository.UpdateStatus(ctx, appointmentID, newStatus, actorID, actorRole, ip, userAgent)
}
