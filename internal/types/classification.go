package types

import (
	"time"

	"github.com/google/uuid"
)

// Classification is the stored result of a successful job. CategoryID
// points at the resolved subcategory row, whose parent is a top-level
// category in the job's collection.
type Classification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID       uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	InputID     uuid.UUID `gorm:"type:uuid;not null;index" json:"input_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Confidence  *float64  `gorm:"column:confidence" json:"confidence,omitempty"`
	Explanation string    `gorm:"column:explanation" json:"explanation"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Classification) TableName() string {
	return "classifications"
}
