package services

import (
	"MediLink/models"
	"MediLink/repositories"
	"context"
)

type SettingsService struct {
	repository *repositories.SettingsRepository
	auditRepo  *repositories.AuditLogRepository
}

func NewSettingsService(repository *repositories.SettingsRepository, auditRepo *repositories.AuditLogRepository) *SettingsService {
	return &SettingsService{repository: repository, auditRepo: auditRepo}
}

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.repository.Get(ctx, key)
}

func (s *SettingsService) GetAll(ctx context.Context) ([]models.SystemSetting, error) {
	return s.repository.GetAll(ctx)
}

func (s *SettingsService) Set(ctx context.Context, key, value string, adminID int64, ip, userAgent string) error {
	if err := s.repository.Set(ctx, key, value); err != nil {
		return err
	}
	s.auditRepo.Record(ctx, adminID, "update_setting",
		models.SystemSetting{}.TableName(), 0, ip, userAgent)
	return nil
}
