package services

import (
	"MediLink/database"
	"MediLink/models"
	"MediLink/repositories"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

type ConversationService struct {
	repository *repositories.ConversationRepository
	userRepo   repositories.UserRepository
	auditRepo  *repositories.AuditLogRepository
}

func NewConversationService(repository *repositories.ConversationRepository, userRepo repositories.UserRepository, auditRepo *repositories.AuditLogRepository) *ConversationService {
	return &ConversationService{repository: repository, userRepo: userRepo, auditRepo: auditRepo}
}

// Start opens a conversation between the actor and the counterpart. The
// patient/doctor pairing is derived from the two roles; a Redis lock on the
// pair serializes concurrent starts so only one open conversation per pair
// can exist.
func (s *ConversationService) Start(ctx context.Context, actor, counterpartID int64, actorRole string, ip, userAgent string) (*models.Conversation, error) {
	counterpart, err := s.userRepo.GetUserByID(ctx, counterpartID)
	if err != nil {
		return nil, err
	}

	var patientID, doctorID int64
	switch {
	case actorRole == models.RolePatient && counterpart.IsRole(models.RoleDoctor):
		patientID, doctorID = actor, counterpartID
	case actorRole == models.RoleDoctor && counterpart.IsRole(models.RolePatient):
		patientID, doctorID = counterpartID, actor
	default:
		return nil, repositories.ErrNotFound
	}

	lockKey := fmt.Sprintf("conversation_lock:%d_%d", patientID, doctorID)
	lockValue := uuid.New().String()
	locked, err := database.AcquireLockWithRetry(ctx, lockKey, lockValue, 10*time.Second, 3, time.Second)
	if err != nil || !locked {
		return nil, fmt.Errorf("failed to acquire conversation lock: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	conversation, err := s.repository.Start(ctx, patientID, doctorID)
	if err != nil {
		return nil, err
	}

	s.auditRepo.Record(ctx, actor, "start_conversation",
		models.Conversation{}.TableName(), int64(conversation.ID), ip, userAgent)
	return conversation, nil
}

// PostMessage appends a message; the recipient notification commits with it.
// The audit entry is recorded best-effort after the fact.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID uint, senderID int64, body, ip, userAgent string) (*models.Message, error) {
	message, err := s.repository.PostMessage(ctx, conversationID, senderID, body)
	if err != nil {
		return nil, err
	}

	s.auditRepo.Record(ctx, senderID, "send_message",
		models.Message{}.TableName(), int64(message.ID), ip, userAgent)
	return message, nil
}

func (s *ConversationService) ListForUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	return s.repository.ListForUser(ctx, userID)
}

func (s *ConversationService) GetMessages(ctx context.Context, conversationID uint, viewerID int64) ([]models.Message, error) {
	return s.repository.GetMessages(ctx, conversationID, viewerID)
}

func (s *ConversationService) Status(ctx context.Context, conversationID uint, viewerID int64) (*repositories.ConversationStatus, error) {
	return s.repository.Status(ctx, conversationID, viewerID)
}

// Close ends the conversation for good; there is no reopening path.
func (s *ConversationService) Close(ctx context.Context, conversationID uint, doctorID int64, ip, userAgent string) (*models.Conversation, error) {
	conversation, err := s.repository.Close(ctx, conversationID, doctorID)
	if err != nil {
		return nil, err
	}

	s.auditRepo.Record(ctx, doctorID, "close_conversation",
		models.Conversation{}.TableName(), int64(conversationID), ip, userAgent)
	return conversation, nil
}
