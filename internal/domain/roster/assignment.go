package roster

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultSlotLabel       = "Not specified"
	DefaultDurationMinutes = 60
)

// Assignment is the current teacher/timeslot binding for a student. At most
// one assignment exists per student; reassignment deletes the old row and
// creates a new one inside the same transaction, never updates in place.
type Assignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index;column:student_id" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_id" json:"teacher_id"`

	SlotLabel       string `gorm:"not null;default:'Not specified';column:slot_label" json:"slot_label"`
	DurationMinutes int    `gorm:"not null;default:60;column:duration_minutes" json:"duration_minutes"`
	MeetingLink     string `gorm:"column:meeting_link" json:"meeting_link"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignment" }
