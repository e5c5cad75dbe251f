package services

import (
	"MediLink/models"
	"MediLink/repositories"
	"context"
)

type PatientService struct {
	healthRepo      *repositories.HealthProfileRepository
	appointmentRepo *repositories.AppointmentRepository
	auditRepo       *repositories.AuditLogRepository
}

func NewPatientService(healthRepo *repositories.HealthProfileRepository, appointmentRepo *repositories.AppointmentRepository, auditRepo *repositories.AuditLogRepository) *PatientService {
	return &PatientService{healthRepo: healthRepo, appointmentRepo: appointmentRepo, auditRepo: auditRepo}
}

// GetHealthProfile serves the patient's own profile, a treating doctor, or
// an admin. Anyone else sees not found.
func (s *PatientService) GetHealthProfile(ctx context.Context, patientID int64, actorID int64, actorRole string) (*models.HealthProfile, error) {
	if err := s.authorize(ctx, patientID, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.healthRepo.GetByUserID(ctx, patientID)
}

// UpdateHealthProfile is doctor-only, and only for the treating doctor.
func (s *PatientService) UpdateHealthProfile(ctx context.Context, patientID, doctorID int64, profile *models.HealthProfile, ip, userAgent string) error {
	treating, err := s.appointmentRepo.HasAppointmentBetween(ctx, doctorID, patientID)
	if err != nil {
		return err
	}
	if !treating {
		return repositories.ErrNotFound
	}

	if err := s.healthRepo.Update(ctx, patientID, doctorID, profile); err != nil {
		return err
	}

	s.auditRepo.Record(ctx, doctorID, "update_health_profile",
		models.HealthProfile{}.TableName(), patientID, ip, userAgent)
	return nil
}

func (s *PatientService) authorize(ctx context.Context, patientID, actorID int64, actorRole string) error {
	if actorRole == models.RoleAdmin || actorID == patientID {
		return nil
	}
	if actorRole == models.RoleDoctor {
		treating, err := s.appointmentRepo.HasAppointmentBetween(ctx, actorID, patientID)
		if err != nil {
			return err
		}
		if treating {
			return nil
		}
	}
	return repositories.ErrNotFound
}
