package utils

import (
	"MediLink/models"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrInvalidResetCode   = errors.New("invalid reset code")
)

// ValidateUserData validates user data using ozzo-validation.
func ValidateUserData(user models.User) error {
	return validation.ValidateStruct(&user,
		validation.Field(&user.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
}

// ValidateDoctorProfile validates the credentials submitted at doctor registration.
func ValidateDoctorProfile(profile models.DoctorProfile) error {
	return validation.ValidateStruct(&profile,
		validation.Field(&profile.LicenseNumber, validation.Required, validation.Length(3, 100)),
		validation.Field(&profile.Specialization, validation.Length(0, 100)),
		validation.Field(&profile.ConsultationFee, validation.Min(0.0)),
	)
}

// ValidateAppointmentData validates a booking payload.
func ValidateAppointmentData(appointment models.Appointment) error {
	return validation.ValidateStruct(&appointment,
		validation.Field(&appointment.PatientID, validation.Required),
		validation.Field(&appointment.DoctorID, validation.Required),
		validation.Field(&appointment.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&appointment.StartTime, validation.Required, validation.Date("15:04")),
		validation.Field(&appointment.EndTime, validation.Date("15:04")),
		validation.Field(&appointment.Reason, validation.Length(0, 2000)),
	)
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	return validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
