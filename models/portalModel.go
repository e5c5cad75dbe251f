package models

import (
	"time"

	"gorm.io/gorm"
)

// Appointment statuses. Any status may be set from any other; the portal
// does not restrict the transition graph.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// ValidAppointmentStatus reports whether s is one of the three statuses.
func ValidAppointmentStatus(s string) bool {
	return s == AppointmentScheduled || s == AppointmentCompleted || s == AppointmentCancelled
}

// Conversation statuses. Closed is terminal.
const (
	ConversationOpen   = "open"
	ConversationClosed = "closed"
)

// Appointment model
type Appointment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID int64     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID  int64     `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Date      string    `gorm:"column:date;not null;index" json:"date"`
	StartTime string    `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   string    `gorm:"column:end_time" json:"end_time"`
	Status    string    `gorm:"column:status;check:status IN ('scheduled', 'completed', 'cancelled');not null" json:"status"`
	Reason    string    `gorm:"type:text;column:reason" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient   User      `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
	Doctor    User      `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Conversation model: one chat channel per (patient, doctor) pair
type Conversation struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientID     int64     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	DoctorID      int64     `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Status        string    `gorm:"column:status;check:status IN ('open', 'closed');not null" json:"status"`
	StartedAt     time.Time `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	LastMessageAt time.Time `gorm:"column:last_message_at" json:"last_message_at"`
	Patient       User      `gorm:"foreignKey:PatientID;references:ID" json:"-"`
	Doctor        User      `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Participant reports whether userID is one of the two conversation members.
func (c *Conversation) Participant(userID int64) bool {
	return c.PatientID == userID || c.DoctorID == userID
}

// Recipient returns the other participant for a given sender.
func (c *Conversation) Recipient(senderID int64) int64 {
	if senderID == c.PatientID {
		return c.DoctorID
	}
	return c.PatientID
}

// Message model. Immutable once written except for the is_read flag,
// which only ever moves false to true.
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	ConversationID uint      `gorm:"column:conversation_id;not null;index" json:"conversation_id"`
	SenderID       int64     `gorm:"column:sender_id;not null;index" json:"sender_id"`
	Body           string    `gorm:"type:text;not null;column:body" json:"body"`
	IsRead         bool      `gorm:"not null;default:false;column:is_read" json:"is_read"`
	SentAt         time.Time `gorm:"column:sent_at;autoCreateTime" json:"sent_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Notification model: append-only mailbox row for a single recipient
type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	UserID    int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Title     string    `gorm:"size:255;not null;column:title" json:"title"`
	Message   string    `gorm:"type:text;column:message" json:"message"`
	Link      string    `gorm:"size:255;column:link" json:"link"`
	IsRead    bool      `gorm:"not null;default:false;column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// AuditLogEntry model: append-only record of every mutating action
type AuditLogEntry struct {
	ID            uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID        int64     `gorm:"column:user_id;not null;index" json:"user_id"`
	Action        string    `gorm:"size:100;not null;column:action" json:"action"`
	TableAffected string    `gorm:"size:100;column:table_affected" json:"table_affected"`
	RecordID      int64     `gorm:"column:record_id" json:"record_id"`
	IP            string    `gorm:"size:45;column:ip" json:"ip"`
	UserAgent     string    `gorm:"size:255;column:user_agent" json:"user_agent"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "audit_log"
}

// SystemSetting model: cross-cutting key/value configuration
type SystemSetting struct {
	Key       string    `gorm:"primaryKey;size:100;column:key" json:"key"`
	Value     string    `gorm:"size:255;not null;column:value" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (SystemSetting) TableName() string {
	return "system_settings"
}

// Setting keys consumed by the portal.
const (
	SettingTimezone        = "timezone"
	SettingMaintenanceMode = "maintenance_mode"
	SettingChatPollSeconds = "chat_poll_seconds"
)

// SeedSystemSettings inserts default settings into the database
func SeedSystemSettings(db *gorm.DB) error {
	defaults := []SystemSetting{
		{Key: SettingTimezone, Value: "UTC"},
		{Key: SettingMaintenanceMode, Value: "off"},
		{Key: SettingChatPollSeconds, Value: "3"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, setting := range defaults {
			if err := tx.FirstOrCreate(&setting, SystemSetting{Key: setting.Key}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
