package services

import (
	"MediLink/database"
	"MediLink/models"
	"MediLink/repositories"
	"MediLink/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for any login failure: wrong password,
// unknown email, suspension, or an unapproved doctor. One message for all
// four so the response does not say which.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService interface {
	RegisterPatient(ctx context.Context, user *models.User) error
	RegisterDoctor(ctx context.Context, user *models.User, profile *models.DoctorProfile) error
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUserProfile(ctx context.Context, userID int64, username, email, phone string) error
	UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error
	SetVerified(ctx context.Context, userID int64, verified bool) error
	SetSuspended(ctx context.Context, userID int64, suspended bool) error
	DeleteUser(ctx context.Context, userID int64) error
}

type userService struct {
	userRepo   repositories.UserRepository
	doctorRepo *repositories.DoctorRepository
	healthRepo *repositories.HealthProfileRepository
}

func NewUserService(userRepo repositories.UserRepository, doctorRepo *repositories.DoctorRepository, healthRepo *repositories.HealthProfileRepository) UserService {
	return &userService{userRepo: userRepo, doctorRepo: doctorRepo, healthRepo: healthRepo}
}

// register validates and creates the user row under a per-email lock, then
// assigns the named role.
func (s *userService) register(ctx context.Context, user *models.User, roleName string) error {
	lockKey := fmt.Sprintf("user_lock:%s", user.Email)
	lockValue := uuid.New().String()
	locked, err := database.NewLock(ctx, lockKey, lockValue, time.Minute)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return errors.New("failed to acquire lock")
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	if err := utils.ValidateUserData(*user); err != nil {
		return fmt.Errorf("invalid user data: %w", err)
	}

	exists, err := s.userRepo.EmailExists(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return errors.New("email already registered")
	}

	role, err := s.userRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return fmt.Errorf("failed to resolve role %q: %w", roleName, err)
	}
	user.RoleID = role.ID

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	return s.userRepo.CreateUser(ctx, user)
}

// RegisterPatient creates a patient account with an empty health profile.
func (s *userService) RegisterPatient(ctx context.Context, user *models.User) error {
	if err := s.register(ctx, user, models.RolePatient); err != nil {
		return err
	}
	profile := models.HealthProfile{UserID: user.ID}
	if err := s.healthRepo.Create(ctx, &profile); err != nil {
		log.Printf("Failed to create health profile for user %d: %v", user.ID, err)
	}
	return nil
}

// RegisterDoctor creates a doctor account plus its unapproved profile. The
// doctor cannot log in until an admin approves the profile.
func (s *userService) RegisterDoctor(ctx context.Context, user *models.User, profile *models.DoctorProfile) error {
	if err := utils.ValidateDoctorProfile(*profile); err != nil {
		return fmt.Errorf("invalid doctor profile: %w", err)
	}
	if err := s.register(ctx, user, models.RoleDoctor); err != nil {
		return err
	}
	profile.UserID = user.ID
	profile.IsApproved = false
	return s.doctorRepo.Create(ctx, profile)
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserForLogin(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if user.Suspended {
		return nil, ErrInvalidCredentials
	}

	if user.IsRole(models.RoleDoctor) {
		profile, err := s.doctorRepo.GetByUserID(ctx, user.ID)
		if err != nil || !profile.IsApproved {
			return nil, ErrInvalidCredentials
		}
	}

	user.Password = ""
	return user, nil
}

// Logout denylists both tokens so the session identifier is disposed, not
// merely cleared on the client.
func (s *userService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if err := utils.RevokeToken(ctx, accessToken); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}
	if refreshToken != "" {
		if err := utils.RevokeToken(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}
	return nil
}

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetUserByEmail(ctx, email)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.GetAllUsers(ctx)
}

func (s *userService) UpdateUserProfile(ctx context.Context, userID int64, username, email, phone string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdateUserProfile(ctx, userID, username, email, phone); err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	// Invalidate every cache identity the user may be stored under.
	for _, identifier := range []string{user.Email, user.Username, email, username, fmt.Sprintf("%d", userID)} {
		if err := s.userRepo.DeleteUserCache(ctx, identifier); err != nil {
			log.Printf("Failed to delete user cache for %q: %v", identifier, err)
		}
	}
	return nil
}

func (s *userService) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	return s.userRepo.UpdateUserPassword(ctx, userID, hashedPassword)
}

func (s *userService) SetVerified(ctx context.Context, userID int64, verified bool) error {
	return s.userRepo.SetVerified(ctx, userID, verified)
}

func (s *userService) SetSuspended(ctx context.Context, userID int64, suspended bool) error {
	return s.userRepo.SetSuspended(ctx, userID, suspended)
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	return s.userRepo.DeleteUser(ctx, userID)
}
