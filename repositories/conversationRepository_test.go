package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"MediLink/models"
	"MediLink/repositories"
)

func startConversation(t *testing.T, repo *repositories.ConversationRepository, patientID, doctorID int64) *models.Conversation {
	t.Helper()
	conversation, err := repo.Start(context.Background(), patientID, doctorID)
	if err != nil {
		t.Fatalf("start conversation: %v", err)
	}
	return conversation
}

func TestStartSecondOpenConversationRejected(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	startConversation(t, repo, patient.ID, doctor.ID)

	_, err := repo.Start(context.Background(), patient.ID, doctor.ID)
	if !errors.Is(err, repositories.ErrConversationExists) {
		t.Fatalf("expected ErrConversationExists, got %v", err)
	}
}

func TestStartAllowedAgainAfterClose(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	first := startConversation(t, repo, patient.ID, doctor.ID)

	if _, err := repo.Close(context.Background(), first.ID, doctor.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := repo.Start(context.Background(), patient.ID, doctor.ID)
	if err != nil {
		t.Fatalf("start after close: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a fresh conversation")
	}
}

func TestGetForParticipantHidesOutsiders(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	outsider := createUser(t, db, models.RolePatient)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)

	if _, err := repo.GetForParticipant(context.Background(), conversation.ID, patient.ID); err != nil {
		t.Fatalf("participant read: %v", err)
	}

	// an outsider gets the same answer as for a missing conversation
	_, err := repo.GetForParticipant(context.Background(), conversation.ID, outsider.ID)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for outsider, got %v", err)
	}
}

func TestPostMessageRejectsEmptyBody(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)

	_, err := repo.PostMessage(context.Background(), conversation.ID, patient.ID, "")
	if !errors.Is(err, repositories.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestPostMessageNotifiesRecipientAndBumpsActivity(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)
	before := conversation.LastMessageAt

	time.Sleep(10 * time.Millisecond)
	message, err := repo.PostMessage(context.Background(), conversation.ID, patient.ID, "hello doctor")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if message.ID == 0 {
		t.Fatal("message not persisted")
	}
	if message.IsRead {
		t.Error("new message must start unread")
	}

	notifications := notificationsFor(t, db, doctor.ID)
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification for the doctor, got %d", len(notifications))
	}
	if notifications[0].Title != "New Message" {
		t.Errorf("title: got %q", notifications[0].Title)
	}

	// the sender gets nothing
	if n := notificationsFor(t, db, patient.ID); len(n) != 0 {
		t.Errorf("sender must not be notified, got %d", len(n))
	}

	got, err := repo.GetForParticipant(context.Background(), conversation.ID, patient.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.LastMessageAt.After(before) {
		t.Error("last_message_at was not bumped")
	}
}

func TestGetMessagesMarksOnlyOthersMessagesRead(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)

	repo.PostMessage(context.Background(), conversation.ID, patient.ID, "first")
	repo.PostMessage(context.Background(), conversation.ID, patient.ID, "second")
	repo.PostMessage(context.Background(), conversation.ID, doctor.ID, "reply")

	messages, err := repo.GetMessages(context.Background(), conversation.ID, doctor.ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}

	// oldest-first, and only the patient's messages flipped to read
	for _, m := range messages {
		switch m.SenderID {
		case patient.ID:
			if !m.IsRead {
				t.Errorf("message %d from patient should be read after doctor viewed", m.ID)
			}
		case doctor.ID:
			if m.IsRead {
				t.Errorf("doctor's own message %d must not be marked read by their view", m.ID)
			}
		}
	}
	if messages[0].Body != "first" || messages[2].Body != "reply" {
		t.Error("messages not ordered oldest-first")
	}

	// viewing again is a no-op on read state
	status, err := repo.Status(context.Background(), conversation.ID, doctor.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.UnreadCount != 0 {
		t.Errorf("unread after read: got %d", status.UnreadCount)
	}
}

func TestStatusDoesNotTouchReadState(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)

	message, err := repo.PostMessage(context.Background(), conversation.ID, patient.ID, "ping")
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	// polling twice must report the same unread count both times
	for i := 0; i < 2; i++ {
		status, err := repo.Status(context.Background(), conversation.ID, doctor.ID)
		if err != nil {
			t.Fatalf("status %d: %v", i+1, err)
		}
		if status.UnreadCount != 1 {
			t.Errorf("poll %d: unread got %d, want 1", i+1, status.UnreadCount)
		}
		if status.LatestMessageID != message.ID {
			t.Errorf("poll %d: latest got %d, want %d", i+1, status.LatestMessageID, message.ID)
		}
		if status.Status != models.ConversationOpen {
			t.Errorf("poll %d: status got %s", i+1, status.Status)
		}
	}
}

func TestCloseIsDoctorOnly(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)

	_, err := repo.Close(context.Background(), conversation.ID, patient.ID)
	if !errors.Is(err, repositories.ErrNotAuthorized) {
		t.Fatalf("patient close: expected ErrNotAuthorized, got %v", err)
	}

	closed, err := repo.Close(context.Background(), conversation.ID, doctor.ID)
	if err != nil {
		t.Fatalf("doctor close: %v", err)
	}
	if closed.Status != models.ConversationClosed {
		t.Errorf("status: got %s", closed.Status)
	}

	notifications := notificationsFor(t, db, patient.ID)
	if len(notifications) != 1 || notifications[0].Title != "Conversation Closed" {
		t.Errorf("expected a Conversation Closed notification, got %+v", notifications)
	}
}

func TestPostMessageToClosedConversationStillLands(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	conversation := startConversation(t, repo, patient.ID, doctor.ID)

	if _, err := repo.Close(context.Background(), conversation.ID, doctor.ID); err != nil {
		t.Fatalf("close: %v", err)
	}

	// closed stops nothing; the thread stays writable
	message, err := repo.PostMessage(context.Background(), conversation.ID, patient.ID, "one more thing")
	if err != nil {
		t.Fatalf("post to closed: %v", err)
	}
	if message.ID == 0 {
		t.Fatal("message not persisted")
	}

	status, err := repo.Status(context.Background(), conversation.ID, doctor.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Status != models.ConversationClosed {
		t.Errorf("conversation must stay closed, got %s", status.Status)
	}
	if status.LatestMessageID != message.ID {
		t.Errorf("latest: got %d, want %d", status.LatestMessageID, message.ID)
	}
}

func TestListForUserMostRecentFirst(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewConversationRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctorA := createUser(t, db, models.RoleDoctor)
	doctorB := createUser(t, db, models.RoleDoctor)

	older := startConversation(t, repo, patient.ID, doctorA.ID)
	newer := startConversation(t, repo, patient.ID, doctorB.ID)

	time.Sleep(10 * time.Millisecond)
	if _, err := repo.PostMessage(context.Background(), older.ID, patient.ID, "bump"); err != nil {
		t.Fatalf("post: %v", err)
	}

	conversations, err := repo.ListForUser(context.Background(), patient.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}
	if conversations[0].ID != older.ID {
		t.Errorf("bumped conversation should sort first, got %d", conversations[0].ID)
	}
	if conversations[1].ID != newer.ID {
		t.Errorf("expected %d second, got %d", newer.ID, conversations[1].ID)
	}
}
