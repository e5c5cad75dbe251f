package services

import (
	"MediLink/models"
	"MediLink/repositories"
	"context"
	"fmt"
)

type DoctorService struct {
	repository   *repositories.DoctorRepository
	notification *NotificationService
	auditRepo    *repositories.AuditLogRepository
}

func NewDoctorService(repository *repositories.DoctorRepository, notification *NotificationService, auditRepo *repositories.AuditLogRepository) *DoctorService {
	return &DoctorService{repository: repository, notification: notification, auditRepo: auditRepo}
}

func (s *DoctorService) GetProfile(ctx context.Context, userID int64) (*models.DoctorProfile, error) {
	return s.repository.GetByUserID(ctx, userID)
}

func (s *DoctorService) UpdateOwnProfile(ctx context.Context, userID int64, specialization, availability string, fee float64, ip, userAgent string) error {
	if err := s.repository.UpdateOwn(ctx, userID, specialization, availability, fee); err != nil {
		return err
	}
	s.auditRepo.Record(ctx, userID, "update_doctor_profile",
		models.DoctorProfile{}.TableName(), userID, ip, userAgent)
	return nil
}

func (s *DoctorService) ListApproved(ctx context.Context) ([]models.DoctorProfile, error) {
	return s.repository.ListApproved(ctx)
}

func (s *DoctorService) ListPending(ctx context.Context) ([]models.DoctorProfile, error) {
	return s.repository.ListPending(ctx)
}

// SetApproval approves or rejects a doctor and tells them. The decision is
// audited under the acting admin.
func (s *DoctorService) SetApproval(ctx context.Context, doctorUserID, adminID int64, approved bool, ip, userAgent string) (*models.DoctorProfile, error) {
	profile, err := s.repository.SetApproval(ctx, doctorUserID, approved)
	if err != nil {
		return nil, err
	}

	title := "Account Approved"
	message := "Your doctor account has been approved. You can now log in."
	if !approved {
		title = "Account Not Approved"
		message = "Your doctor account was not approved. Contact support for details."
	}
	if err := s.notification.Send(ctx, doctorUserID, title, message, "/login"); err != nil {
		return nil, fmt.Errorf("failed to notify doctor: %w", err)
	}

	s.auditRepo.Record(ctx, adminID, "set_doctor_approval",
		models.DoctorProfile{}.TableName(), doctorUserID, ip, userAgent)
	return profile, nil
}
