package services

import (
	"MediLink/models"
	"MediLink/repositories"
	"context"
)

type ReportService struct {
	reportRepo *repositories.ReportRepository
	auditRepo  *repositories.AuditLogRepository
}

func NewReportService(reportRepo *repositories.ReportRepository, auditRepo *repositories.AuditLogRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, auditRepo: auditRepo}
}

func (s *ReportService) Stats(ctx context.Context) (*repositories.PortalStats, error) {
	return s.reportRepo.Stats(ctx)
}

func (s *ReportService) RecentAuditEntries(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	return s.auditRepo.ListRecent(ctx, limit)
}
