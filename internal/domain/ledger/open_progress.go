package ledger

import (
	"time"

	"github.com/google/uuid"
)

const (
	ScheduleOpen   = "open"
	ScheduleClosed = "closed"
)

const (
	PayoutPending = "pending"
	PayoutPaid    = "paid"
)

// OpenProgress is the live aggregate for one (student, teacher) pair. The
// store enforces at most one open row per pair via a partial unique index.
// Counters are maintained incrementally inside the owning transaction and
// never recomputed by scan.
type OpenProgress struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index;column:student_id" json:"student_id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_id" json:"teacher_id"`

	LearningCount int  `gorm:"not null;default:0;column:learning_count" json:"learning_count"`
	MissingCount  int  `gorm:"not null;default:0;column:missing_count" json:"missing_count"`
	TotalCount    *int `gorm:"column:total_count" json:"total_count,omitempty"`

	ScheduleStatus string `gorm:"not null;default:'open';column:schedule_status" json:"schedule_status"`
	PayoutStatus   string `gorm:"not null;default:'pending';column:payout_status" json:"payout_status"`
	SlotLabel      string `gorm:"not null;column:slot_label" json:"slot_label"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (OpenProgress) TableName() string { return "open_progress" }
