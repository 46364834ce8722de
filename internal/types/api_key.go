package types

import (
	"time"

	"github.com/google/uuid"
)

type APIKey struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	WorkspaceID *uuid.UUID `gorm:"type:uuid;index" json:"workspace_id,omitempty"`
	KeyHash     string     `gorm:"uniqueIndex;not null;column:key_hash" json:"-"`
	KeyLast4    string     `gorm:"not null;column:key_last4" json:"key_last4"`
	Name        string     `gorm:"column:name" json:"name,omitempty"`
	IsActive    bool       `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
}

func (APIKey) TableName() string {
	return "api_keys"
}
