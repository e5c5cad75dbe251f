package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"MediLink/models"
	"MediLink/repositories"
)

func TestUpdateStatusByOwningDoctor(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	appt := createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-01", "09:00")

	err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCompleted,
		doctor.ID, models.RoleDoctor, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := repo.GetByID(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.AppointmentCompleted {
		t.Errorf("status: got %s, want %s", got.Status, models.AppointmentCompleted)
	}
}

func TestUpdateStatusForeignDoctorReadsAsNotAuthorized(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	owner := createUser(t, db, models.RoleDoctor)
	other := createUser(t, db, models.RoleDoctor)
	appt := createAppointment(t, repo, patient.ID, owner.ID, "2026-10-02", "10:00")

	err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCancelled,
		other.ID, models.RoleDoctor, "127.0.0.1", "test-agent")
	if !errors.Is(err, repositories.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	// the row must be untouched
	got, _ := repo.GetByID(context.Background(), appt.ID)
	if got.Status != models.AppointmentScheduled {
		t.Errorf("status changed by foreign doctor: %s", got.Status)
	}

	// and no notification may have leaked out
	if n := notificationsFor(t, db, patient.ID); len(n) != 0 {
		t.Errorf("expected no notifications, got %d", len(n))
	}
}

func TestUpdateStatusMissingAppointmentReadsAsNotAuthorized(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	doctor := createUser(t, db, models.RoleDoctor)

	err := repo.UpdateStatus(context.Background(), 999999999, models.AppointmentCancelled,
		doctor.ID, models.RoleDoctor, "127.0.0.1", "test-agent")
	if !errors.Is(err, repositories.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized for missing appointment, got %v", err)
	}
}

func TestUpdateStatusAdminBypassesOwnership(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	admin := createUser(t, db, models.RoleAdmin)
	appt := createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-03", "11:00")

	err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCancelled,
		admin.ID, models.RoleAdmin, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
}

func TestUpdateStatusRejectsPatientsAndBadStatuses(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	appt := createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-04", "12:00")

	err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCancelled,
		patient.ID, models.RolePatient, "127.0.0.1", "test-agent")
	if !errors.Is(err, repositories.ErrNotAuthorized) {
		t.Errorf("patient role: expected ErrNotAuthorized, got %v", err)
	}

	err = repo.UpdateStatus(context.Background(), appt.ID, "rescheduled",
		doctor.ID, models.RoleDoctor, "127.0.0.1", "test-agent")
	if !errors.Is(err, repositories.ErrInvalidStatus) {
		t.Errorf("bad status: expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateStatusSetSameStatusTwice(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	appt := createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-05", "13:00")

	for i := 0; i < 2; i++ {
		err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCompleted,
			doctor.ID, models.RoleDoctor, "127.0.0.1", "test-agent")
		if err != nil {
			t.Fatalf("update %d: %v", i+1, err)
		}
	}

	// setting a status is a plain write; each call notifies the patient again
	notifications := notificationsFor(t, db, patient.ID)
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notifications))
	}
	for _, n := range notifications {
		if n.Title != "Appointment Completed" {
			t.Errorf("title: got %q", n.Title)
		}
		if n.Link != fmt.Sprintf("/appointments/%d", appt.ID) {
			t.Errorf("link: got %q", n.Link)
		}
		if n.IsRead {
			t.Error("new notification must be unread")
		}
	}
}

func TestUpdateStatusRollsBackWhenAuditInsertFails(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	appt := createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-09", "09:00")

	// a user agent beyond the audit column width makes the audit insert
	// fail inside the transaction, after the status row was updated
	longAgent := strings.Repeat("a", 300)
	err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCompleted,
		doctor.ID, models.RoleDoctor, "127.0.0.1", longAgent)
	if err == nil {
		t.Fatal("expected the audit insert to fail")
	}

	// the whole transaction must have rolled back: status unchanged,
	// no notification row
	got, err := repo.GetByID(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.AppointmentScheduled {
		t.Errorf("status leaked through a failed transaction: %s", got.Status)
	}
	if n := notificationsFor(t, db, patient.ID); len(n) != 0 {
		t.Errorf("notification leaked through a failed transaction: %d rows", len(n))
	}
}

func TestUpdateStatusWritesAuditEntry(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	appt := createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-06", "14:00")

	err := repo.UpdateStatus(context.Background(), appt.ID, models.AppointmentCancelled,
		doctor.ID, models.RoleDoctor, "10.0.0.7", "test-agent")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var entry models.AuditLogEntry
	err = db.Where("user_id = ? AND action = ? AND record_id = ?", doctor.ID, "update_status", appt.ID).
		First(&entry).Error
	if err != nil {
		t.Fatalf("audit entry not found: %v", err)
	}
	if entry.TableAffected != "appointments" {
		t.Errorf("table_affected: got %q", entry.TableAffected)
	}
	if entry.IP != "10.0.0.7" {
		t.Errorf("ip: got %q", entry.IP)
	}
}

func TestListForUserOrderedByDateThenTime(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)

	// created out of order on purpose
	createAppointment(t, repo, patient.ID, doctor.ID, "2026-11-02", "09:00")
	createAppointment(t, repo, patient.ID, doctor.ID, "2026-11-01", "15:00")
	createAppointment(t, repo, patient.ID, doctor.ID, "2026-11-01", "08:00")

	appointments, err := repo.ListForUser(context.Background(), "patient_id", patient.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(appointments) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(appointments))
	}

	want := []struct{ date, start string }{
		{"2026-11-01", "08:00"},
		{"2026-11-01", "15:00"},
		{"2026-11-02", "09:00"},
	}
	for i, w := range want {
		if appointments[i].Date != w.date || appointments[i].StartTime != w.start {
			t.Errorf("position %d: got (%s %s), want (%s %s)",
				i, appointments[i].Date, appointments[i].StartTime, w.date, w.start)
		}
	}
}

func TestCreateRejectsInvalidStatus(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)

	appointment := models.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      "2026-10-07",
		StartTime: "09:00",
		Status:    "pending",
	}
	err := repo.Create(context.Background(), &appointment)
	if !errors.Is(err, repositories.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestHasAppointmentBetween(t *testing.T) {
	db, c := setup(t)
	repo := repositories.NewAppointmentRepository(db, c)

	patient := createUser(t, db, models.RolePatient)
	doctor := createUser(t, db, models.RoleDoctor)
	stranger := createUser(t, db, models.RoleDoctor)
	createAppointment(t, repo, patient.ID, doctor.ID, "2026-10-08", "09:00")

	treating, err := repo.HasAppointmentBetween(context.Background(), doctor.ID, patient.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !treating {
		t.Error("doctor with an appointment should be treating")
	}

	treating, err = repo.HasAppointmentBetween(context.Background(), stranger.ID, patient.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if treating {
		t.Error("doctor without an appointment must not be treating")
	}
}
