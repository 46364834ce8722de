package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Input is one submitted issue text. Immutable once created; the raw
// text is the dedup key for the classification cache path.
type Input struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID *uuid.UUID     `gorm:"type:uuid;index" json:"workspace_id,omitempty"`
	APIKeyID    *uuid.UUID     `gorm:"type:uuid;index" json:"api_key_id,omitempty"`
	Source      string         `gorm:"column:source" json:"source"`
	RawText     string         `gorm:"not null;index;column:raw_text" json:"raw_text"`
	RawMetadata datatypes.JSON `gorm:"type:jsonb;column:raw_metadata" json:"raw_metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Input) TableName() string {
	return "inputs"
}
