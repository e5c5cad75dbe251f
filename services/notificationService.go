package services

import (
	"MediLink/models"
	"MediLink/repositories"
	"context"
)

type NotificationService struct {
	repository *repositories.NotificationRepository
}

func NewNotificationService(repository *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repository: repository}
}

// Send appends a notification row. Durability is the whole delivery
// guarantee: the UI polls for unread rows, nothing is pushed or emailed.
func (s *NotificationService) Send(ctx context.Context, userID int64, title, message, link string) error {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}
	return s.repository.Create(ctx, &notification)
}

func (s *NotificationService) Unread(ctx context.Context, userID int64, limit int) ([]models.Notification, error) {
	return s.repository.Unread(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID int64, ids []uint) error {
	return s.repository.MarkRead(ctx, userID, ids)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repository.UnreadCount(ctx, userID)
}
