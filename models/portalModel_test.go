package models

import "testing"

func TestValidAppointmentStatus(t *testing.T) {
	for _, s := range []string{AppointmentScheduled, AppointmentCompleted, AppointmentCancelled} {
		if !ValidAppointmentStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "pending", "Scheduled", "SCHEDULED", "done"} {
		if ValidAppointmentStatus(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestConversationParticipantAndRecipient(t *testing.T) {
	conversation := Conversation{PatientID: 10, DoctorID: 20}

	if !conversation.Participant(10) || !conversation.Participant(20) {
		t.Error("both members should be participants")
	}
	if conversation.Participant(30) {
		t.Error("outsider should not be a participant")
	}

	if got := conversation.Recipient(10); got != 20 {
		t.Errorf("recipient for patient: got %d, want 20", got)
	}
	if got := conversation.Recipient(20); got != 10 {
		t.Errorf("recipient for doctor: got %d, want 10", got)
	}
}
