package repositories

import (
	"MediLink/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type HealthProfileRepository struct {
	db *gorm.DB
}

func NewHealthProfileRepository(db *gorm.DB) *HealthProfileRepository {
	return &HealthProfileRepository{db: db}
}

func (r *HealthProfileRepository) Create(ctx context.Context, profile *models.HealthProfile) error {
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create health profile: %w", err)
	}
	return nil
}

func (r *HealthProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.HealthProfile, error) {
	var profile models.HealthProfile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get health profile: %w", err)
	}
	return &profile, nil
}

// Update overwrites the clinical fields and stamps the doctor who wrote them.
func (r *HealthProfileRepository) Update(ctx context.Context, patientID, doctorID int64, profile *models.HealthProfile) error {
	res := r.db.Model(&models.HealthProfile{}).
		Where("user_id = ?", patientID).
		Updates(map[string]interface{}{
			"blood_type":      profile.BloodType,
			"height_cm":       profile.HeightCm,
			"weight_kg":       profile.WeightKg,
			"allergies":       profile.Allergies,
			"medical_history": profile.MedicalHistory,
			"updated_by":      doctorID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update health profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
