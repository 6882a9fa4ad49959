package ledger

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OutcomePresent    = "present"
	OutcomeAbsent     = "absent"
	OutcomePermission = "permission"
)

const (
	AckUnset    = "unset"
	AckApproved = "approved"
	AckRejected = "rejected"
)

// Entry is one daily attendance outcome for a student-teacher pair. Exactly
// one of OpenProgressID / ArchivedSnapshotID is set at any committed state;
// the store enforces that with a CHECK constraint.
type Entry struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID      `gorm:"type:uuid;not null;index;column:student_id" json:"student_id"`
	TeacherID uuid.UUID      `gorm:"type:uuid;not null;index;column:teacher_id" json:"teacher_id"`
	Date      datatypes.Date `gorm:"not null;column:date" json:"date"`
	SlotLabel string         `gorm:"not null;column:slot_label" json:"slot_label"`
	Outcome   string         `gorm:"not null;column:outcome" json:"outcome"`

	StudentAck string `gorm:"not null;default:'unset';column:student_ack" json:"student_ack"`

	OpenProgressID     *uuid.UUID `gorm:"type:uuid;index;column:open_progress_id" json:"open_progress_id,omitempty"`
	ArchivedSnapshotID *uuid.UUID `gorm:"type:uuid;index;column:archived_snapshot_id" json:"archived_snapshot_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Entry) TableName() string { return "ledger_entry" }

func ValidOutcome(outcome string) bool {
	switch outcome {
	case OutcomePresent, OutcomeAbsent, OutcomePermission:
		return true
	}
	return false
}

// CountsAsLearning reports whether an outcome increments learning_count
// (present or permission) as opposed to missing_count (absent).
func CountsAsLearning(outcome string) bool {
	return outcome == OutcomePresent || outcome == OutcomePermission
}
