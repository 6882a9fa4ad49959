package ledger

import (
	"time"

	"github.com/google/uuid"
)

// ArchivedSnapshot is the immutable historical aggregate created when a
// student is reassigned away from a teacher. OriginalProgressID is an audit
// back-reference; the open_progress row it names is deleted in the same
// transaction, so it intentionally dangles.
type ArchivedSnapshot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index;column:student_id" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_id" json:"teacher_id"`

	LearningCount int `gorm:"not null;column:learning_count" json:"learning_count"`
	MissingCount  int `gorm:"not null;column:missing_count" json:"missing_count"`
	TotalCount    int `gorm:"not null;column:total_count" json:"total_count"`

	ScheduleStatus string `gorm:"not null;default:'closed';column:schedule_status" json:"schedule_status"`
	PayoutStatus   string `gorm:"not null;column:payout_status" json:"payout_status"`
	SlotLabel      string `gorm:"not null;column:slot_label" json:"slot_label"`

	OriginalProgressID uuid.UUID `gorm:"type:uuid;not null;column:original_progress_id" json:"original_progress_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ArchivedSnapshot) TableName() string { return "archived_snapshot" }
