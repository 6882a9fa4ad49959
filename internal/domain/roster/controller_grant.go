package roster

import (
	"time"

	"github.com/google/uuid"
)

// ControllerGrant scopes a controller to one student. Authorization checks
// re-read these rows per call; nothing is cached across requests.
type ControllerGrant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ControllerID uuid.UUID `gorm:"type:uuid;not null;index;column:controller_id" json:"controller_id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index;column:student_id" json:"student_id"`

	GrantedAt time.Time `gorm:"not null;column:granted_at" json:"granted_at"`
}

func (ControllerGrant) TableName() string { return "controller_grant" }
