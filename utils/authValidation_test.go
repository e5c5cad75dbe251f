package utils

import (
	"testing"

	"MediLink/models"
)

func validUser() models.User {
	return models.User{
		Username: "jane.doe",
		Email:    "jane@example.com",
		Password: "Str0ng!pass",
	}
}

func TestValidateUserData(t *testing.T) {
	if err := ValidateUserData(validUser()); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.User)
	}{
		{"empty username", func(u *models.User) { u.Username = "" }},
		{"short username", func(u *models.User) { u.Username = "ab" }},
		{"bad email", func(u *models.User) { u.Email = "not-an-email" }},
		{"empty password", func(u *models.User) { u.Password = "" }},
		{"short password", func(u *models.User) { u.Password = "Ab1!" }},
		{"no uppercase", func(u *models.User) { u.Password = "str0ng!pass" }},
		{"no digit", func(u *models.User) { u.Password = "Strong!pass" }},
		{"no special", func(u *models.User) { u.Password = "Str0ngpass" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := validUser()
			tt.mutate(&user)
			if err := ValidateUserData(user); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAppointmentData(t *testing.T) {
	valid := models.Appointment{
		PatientID: 1,
		DoctorID:  2,
		Date:      "2026-09-15",
		StartTime: "09:30",
		EndTime:   "10:00",
		Reason:    "follow-up",
	}
	if err := ValidateAppointmentData(valid); err != nil {
		t.Fatalf("valid appointment rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.Appointment)
	}{
		{"missing patient", func(a *models.Appointment) { a.PatientID = 0 }},
		{"missing doctor", func(a *models.Appointment) { a.DoctorID = 0 }},
		{"missing date", func(a *models.Appointment) { a.Date = "" }},
		{"bad date format", func(a *models.Appointment) { a.Date = "15/09/2026" }},
		{"bad start time", func(a *models.Appointment) { a.StartTime = "9:30am" }},
		{"bad end time", func(a *models.Appointment) { a.EndTime = "25:99" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appointment := valid
			tt.mutate(&appointment)
			if err := ValidateAppointmentData(appointment); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	// end time is optional
	open := valid
	open.EndTime = ""
	if err := ValidateAppointmentData(open); err != nil {
		t.Errorf("empty end time should pass: %v", err)
	}
}

func TestValidateDoctorProfile(t *testing.T) {
	valid := models.DoctorProfile{
		LicenseNumber:   "LIC-2044",
		Specialization:  "Cardiology",
		ConsultationFee: 80,
	}
	if err := ValidateDoctorProfile(valid); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	missing := valid
	missing.LicenseNumber = ""
	if err := ValidateDoctorProfile(missing); err == nil {
		t.Error("expected error for missing license")
	}

	negative := valid
	negative.ConsultationFee = -5
	if err := ValidateDoctorProfile(negative); err == nil {
		t.Error("expected error for negative fee")
	}
}

func TestValidatePasswordReset(t *testing.T) {
	if err := ValidatePasswordReset("123456", "Str0ng!pass"); err != nil {
		t.Fatalf("valid reset rejected: %v", err)
	}
	if err := ValidatePasswordReset("", "Str0ng!pass"); err == nil {
		t.Error("expected error for missing code")
	}
	if err := ValidatePasswordReset("123456", "weak"); err == nil {
		t.Error("expected error for weak password")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Str0ng!pass" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword(hash, "Str0ng!pass") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
