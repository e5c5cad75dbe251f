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

type ConversationRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewConversationRepository(db *gorm.DB, cache *cache.Cache) *ConversationRepository {
	return &ConversationRepository{db: db, cache: cache}
}

// ConversationStatus is the payload for the chat polling endpoint. Clients
// reload the thread when LatestMessageID advances.
type ConversationStatus struct {
	ConversationID  uint   `json:"conversation_id"`
	Status          string `json:"status"`
	LatestMessageID uint   `json:"latest_message_id"`
	UnreadCount     int64  `json:"unread_count"`
}

// Start opens a conversation between a patient and a doctor. At most one
// open conversation may exist per pair; the check runs inside a transaction
// and callers serialize on a Redis lock above this.
func (r *ConversationRepository) Start(ctx context.Context, patientID, doctorID int64) (*models.Conversation, error) {
	conversation := models.Conversation{
		PatientID:     patientID,
		DoctorID:      doctorID,
		Status:        models.ConversationOpen,
		LastMessageAt: time.Now(),
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Conversation{}).
			Where("patient_id = ? AND doctor_id = ? AND status = ?", patientID, doctorID, models.ConversationOpen).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check existing conversation: %w", err)
		}
		if count > 0 {
			return ErrConversationExists
		}
		return tx.Create(&conversation).Error
	})
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetForParticipant loads a conversation and verifies the viewer belongs to
// it. A conversation the viewer is not part of reads as not found.
func (r *ConversationRepository) GetForParticipant(ctx context.Context, conversationID uint, viewerID int64) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.First(&conversation, conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if !conversation.Participant(viewerID) {
		return nil, ErrNotFound
	}
	return &conversation, nil
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID int64) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Where("patient_id = ? OR doctor_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// PostMessage appends a message and bumps last_message_at, creating the
// recipient's notification in the same transaction. The conversation's
// open/closed state is deliberately not checked: a closed conversation
// still accepts messages.
func (r *ConversationRepository) PostMessage(ctx context.Context, conversationID uint, senderID int64, body string) (*models.Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}

	conversation, err := r.GetForParticipant(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	recipientID := conversation.Recipient(senderID)

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		err := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("last_message_at", time.Now()).Error
		if err != nil {
			return fmt.Errorf("failed to bump last_message_at: %w", err)
		}
		notification := models.Notification{
			UserID:  recipientID,
			Title:   "New Message",
			Message: "You have a new message from your care conversation.",
			Link:    fmt.Sprintf("/conversations/%d", conversationID),
		}
		if err := tx.Create(&notification).Error; err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, notificationCountKey(recipientID)); err != nil {
		log.Printf("Failed to invalidate notification count cache: %v", err)
	}
	return &message, nil
}

// GetMessages returns the thread oldest-first and marks every message not
// sent by the viewer as read in one batch. is_read only ever moves false to
// true; nothing here or elsewhere flips it back.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID uint, viewerID int64) ([]models.Message, error) {
	if _, err := r.GetForParticipant(ctx, conversationID, viewerID); err != nil {
		return nil, err
	}

	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, viewerID, false).
		Update("is_read", true).Error
	if err != nil {
		return nil, fmt.Errorf("failed to mark messages read: %w", err)
	}

	var messages []models.Message
	err = r.db.
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return messages, nil
}

// Status returns the polling payload without touching read state.
func (r *ConversationRepository) Status(ctx context.Context, conversationID uint, viewerID int64) (*ConversationStatus, error) {
	conversation, err := r.GetForParticipant(ctx, conversationID, viewerID)
	if err != nil {
		return nil, err
	}

	var latest models.Message
	latestID := uint(0)
	err = r.db.
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		First(&latest).Error
	if err == nil {
		latestID = latest.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load latest message: %w", err)
	}

	var unread int64
	err = r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, viewerID, false).
		Count(&unread).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return &ConversationStatus{
		ConversationID:  conversationID,
		Status:          conversation.Status,
		LatestMessageID: latestID,
		UnreadCount:     unread,
	}, nil
}

// Close transitions an open conversation to closed. Only the owning doctor
// may close it, and there is no reopening path.
func (r *ConversationRepository) Close(ctx context.Context, conversationID uint, doctorID int64) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Conversation{}).
			Where("id = ? AND doctor_id = ?", conversationID, doctorID).
			Update("status", models.ConversationClosed)
		if res.Error != nil {
			return fmt.Errorf("failed to close conversation: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotAuthorized
		}
		if err := tx.First(&conversation, conversationID).Error; err != nil {
			return fmt.Errorf("failed to load conversation: %w", err)
		}
		notification := models.Notification{
			UserID:  conversation.PatientID,
			Title:   "Conversation Closed",
			Message: "Your doctor has closed this conversation.",
			Link:    fmt.Sprintf("/conversations/%d", conversationID),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	if err := r.cache.Delete(ctx, notificationCountKey(conversation.PatientID)); err != nil {
		log.Printf("Failed to invalidate notification count cache: %v", err)
	}
	return &conversation, nil
}
