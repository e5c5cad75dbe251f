package repositories_test

import (
	"context"
	"testing"
	"time"

	"MediLink/models"
	"MediLink/repositories"
)

func sendNotification(t *testing.T, repo *repositories.NotificationRepository, userID int64, title string) *models.Notification {
	t.Helper()
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: "test message",
	}
	if err := repo.Create(context.Background(), &notification); err != nil {
		t.Fatalf("create notification: %v", err)
	}
	return &notification
}

func TestMarkReadOnlyTouchesOwnRows(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewNotificationRepository(db, c)

	alice := createUser(t, db, models.RolePatient)
	bob := createUser(t, db, models.RolePatient)

	mine := sendNotification(t, repo, alice.ID, "Mine")
	theirs := sendNotification(t, repo, bob.ID, "Theirs")

	// alice tries to mark both; bob's row must survive untouched
	err := repo.MarkRead(context.Background(), alice.ID, []uint{mine.ID, theirs.ID})
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}

	var got models.Notification
	if err := db.First(&got, mine.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !got.IsRead {
		t.Error("own notification should be read")
	}

	if err := db.First(&got, theirs.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.IsRead {
		t.Error("another user's notification must not be flipped")
	}
}

func TestMarkReadEmptyBatchIsNoop(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewNotificationRepository(db, c)

	user := createUser(t, db, models.RolePatient)
	if err := repo.MarkRead(context.Background(), user.ID, nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}

func TestUnreadExcludesReadRows(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewNotificationRepository(db, c)

	user := createUser(t, db, models.RolePatient)
	first := sendNotification(t, repo, user.ID, "First")
	sendNotification(t, repo, user.ID, "Second")

	if err := repo.MarkRead(context.Background(), user.ID, []uint{first.ID}); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := repo.Unread(context.Background(), user.ID, 10)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread, got %d", len(unread))
	}
	if unread[0].Title != "Second" {
		t.Errorf("title: got %q", unread[0].Title)
	}
}

func TestUnreadNewestFirst(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewNotificationRepository(db, c)

	user := createUser(t, db, models.RolePatient)
	for _, title := range []string{"Oldest", "Middle", "Newest"} {
		sendNotification(t, repo, user.ID, title)
		time.Sleep(5 * time.Millisecond)
	}

	unread, err := repo.Unread(context.Background(), user.ID, 10)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	want := []string{"Newest", "Middle", "Oldest"}
	if len(unread) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(unread))
	}
	for i, title := range want {
		if unread[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, unread[i].Title, title)
		}
	}

	// the limit trims from the old end
	unread, err = repo.Unread(context.Background(), user.ID, 2)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) != 2 || unread[0].Title != "Newest" || unread[1].Title != "Middle" {
		t.Errorf("limited list should keep the newest rows, got %+v", unread)
	}
}

func TestUnreadCapsLimit(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewNotificationRepository(db, c)

	user := createUser(t, db, models.RolePatient)
	for i := 0; i < 3; i++ {
		sendNotification(t, repo, user.ID, "Batch")
	}

	// out-of-range limits fall back to the cap, not an error
	for _, limit := range []int{0, -5, repositories.MaxNotificationLimit + 1} {
		unread, err := repo.Unread(context.Background(), user.ID, limit)
		if err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if len(unread) != 3 {
			t.Errorf("limit %d: got %d rows, want 3", limit, len(unread))
		}
	}

	unread, err := repo.Unread(context.Background(), user.ID, 2)
	if err != nil {
		t.Fatalf("limit 2: %v", err)
	}
	if len(unread) != 2 {
		t.Errorf("limit 2: got %d rows", len(unread))
	}
}

func TestUnreadCountTracksMarkRead(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewNotificationRepository(db, c)

	user := createUser(t, db, models.RolePatient)
	first := sendNotification(t, repo, user.ID, "One")
	sendNotification(t, repo, user.ID, "Two")

	count, err := repo.UnreadCount(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count: got %d, want 2", count)
	}

	// MarkRead invalidates the cached badge count
	if err := repo.MarkRead(context.Background(), user.ID, []uint{first.ID}); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, err = repo.UnreadCount(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count after read: got %d, want 1", count)
	}
}
