package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names seeded at startup.
const (
	RoleAdmin   = "Admin"
	RoleDoctor  = "Doctor"
	RolePatient = "Patient"
)

// Role represents a user role
type Role struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: RoleAdmin, Description: "Full access to the system"},
		{Name: RoleDoctor, Description: "Can manage appointments, health profiles, and conversations"},
		{Name: RolePatient, Description: "Can book appointments and message their doctor"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a portal account: patient, doctor, or admin
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"password"`
	RoleID    int64     `gorm:"index;not null;column:role_id" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	FirstName string    `gorm:"size:100;column:first_name" json:"first_name"`
	LastName  string    `gorm:"size:100;column:last_name" json:"last_name"`
	Phone     string    `gorm:"size:30;column:phone" json:"phone"`
	Verified  bool      `gorm:"not null;default:false;column:verified" json:"verified"`
	Suspended bool      `gorm:"not null;default:false;column:suspended" json:"suspended"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// IsRole reports whether the user holds the named role.
func (u *User) IsRole(name string) bool {
	return u.Role.Name == name
}

// DoctorProfile holds the clinical credentials of a doctor account.
// A doctor cannot log in until is_approved is set by an admin.
type DoctorProfile struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	LicenseNumber   string    `gorm:"size:100;not null;column:license_number" json:"license_number"`
	Specialization  string    `gorm:"size:100;column:specialization" json:"specialization"`
	ConsultationFee float64   `gorm:"column:consultation_fee" json:"consultation_fee"`
	Availability    string    `gorm:"type:text;column:availability" json:"availability"`
	IsApproved      bool      `gorm:"not null;default:false;column:is_approved" json:"is_approved"`
	CreatedAt       time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	User            User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (DoctorProfile) TableName() string {
	return "doctors"
}

// HealthProfile holds a patient's vitals and history. Created empty at
// registration and mutated by the treating doctor.
type HealthProfile struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	BloodType      string    `gorm:"size:5;column:blood_type" json:"blood_type"`
	HeightCm       float64   `gorm:"column:height_cm" json:"height_cm"`
	WeightKg       float64   `gorm:"column:weight_kg" json:"weight_kg"`
	Allergies      string    `gorm:"type:text;column:allergies" json:"allergies"`
	MedicalHistory string    `gorm:"type:text;column:medical_history" json:"medical_history"`
	UpdatedBy      int64     `gorm:"column:updated_by" json:"updated_by"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	User           User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (HealthProfile) TableName() string {
	return "patient_health_profiles"
}
