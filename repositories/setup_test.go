package repositories_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"MediLink/cache"
	"MediLink/database"
	"MediLink/models"
	"MediLink/repositories"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var (
	setupOnce sync.Once
	setupErr  error
	testDB    *gorm.DB
	testCache *cache.Cache
)

// setup connects to the test database and Redis once per run. Tests are
// skipped when the environment is not provided.
func setup(t *testing.T) (*gorm.DB, *cache.Cache) {
	t.Helper()
	_ = godotenv.Load("../.env")
	if os.Getenv("DB_URL") == "" || os.Getenv("REDIS_URL") == "" {
		t.Skip("DB_URL or REDIS_URL not set")
	}

	setupOnce.Do(func() {
		testDB, setupErr = database.InitDB(context.Background(), os.Getenv("DB_URL"))
		if setupErr != nil {
			return
		}
		if setupErr = database.InitializeRedis(); setupErr != nil {
			return
		}
		testCache, setupErr = cache.NewCache()
	})
	if setupErr != nil {
		t.Fatalf("setup: %v", setupErr)
	}
	return testDB, testCache
}

func createUser(t *testing.T, db *gorm.DB, roleName string) *models.User {
	t.Helper()
	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		t.Fatalf("load role %s: %v", roleName, err)
	}
	tag := uuid.New().String()[:8]
	user := models.User{
		Username:  fmt.Sprintf("test-%s", tag),
		Email:     fmt.Sprintf("test-%s@test.com", tag),
		Password:  "not-a-real-hash",
		RoleID:    role.ID,
		FirstName: "Test",
		LastName:  roleName,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createAppointment(t *testing.T, repo *repositories.AppointmentRepository, patientID, doctorID int64, date, start string) *models.Appointment {
	t.Helper()
	appointment := models.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		StartTime: start,
		EndTime:   "",
		Status:    models.AppointmentScheduled,
		Reason:    "checkup",
	}
	if err := repo.Create(context.Background(), &appointment); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return &appointment
}

func notificationsFor(t *testing.T, db *gorm.DB, userID int64) []models.Notification {
	t.Helper()
	var notifications []models.Notification
	if err := db.Where("user_id = ?", userID).Order("id").Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	return notifications
}
