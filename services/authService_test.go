package services_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"MediLink/cache"
	"MediLink/database"
	"MediLink/models"
	"MediLink/repositories"
	"MediLink/services"

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

func setup(t *testing.T) services.UserService {
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

	userRepo := repositories.NewUserRepository(testDB, testCache)
	doctorRepo := repositories.NewDoctorRepository(testDB, testCache)
	healthRepo := repositories.NewHealthProfileRepository(testDB)
	return services.NewUserService(userRepo, doctorRepo, healthRepo)
}

func newPatient() *models.User {
	tag := uuid.New().String()[:8]
	return &models.User{
		Username: "reg-" + tag,
		Email:    fmt.Sprintf("reg-%s@test.com", tag),
		Password: "Str0ng!pass",
	}
}

func TestRegisterPatientDuplicateEmail(t *testing.T) {
	svc := setup(t)

	first := newPatient()
	if err := svc.RegisterPatient(context.Background(), first); err != nil {
		t.Fatalf("first register: %v", err)
	}

	second := newPatient()
	second.Email = first.Email
	err := svc.RegisterPatient(context.Background(), second)
	if err == nil {
		t.Fatal("expected error for duplicate email")
	}
	// only a genuine duplicate reads as "already registered"
	if !strings.Contains(err.Error(), "already registered") {
		t.Errorf("expected a duplicate-email error, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	svc := setup(t)

	user := newPatient()
	password := user.Password
	if err := svc.RegisterPatient(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.AuthenticateUser(context.Background(), user.Email, password)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.Password != "" {
		t.Error("password must be cleared on the returned user")
	}

	_, err = svc.AuthenticateUser(context.Background(), user.Email, "Wr0ng!pass")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	_, err = svc.AuthenticateUser(context.Background(), "nobody@test.com", password)
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
