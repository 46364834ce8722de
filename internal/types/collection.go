package types

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named taxonomy namespace, e.g. "HR Issues". Names are
// the lookup key used by the classifier, unique within a workspace.
type Collection struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID *uuid.UUID `gorm:"type:uuid;index" json:"workspace_id,omitempty"`
	Name        string     `gorm:"not null;index;column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Collection) TableName() string {
	return "collections"
}
