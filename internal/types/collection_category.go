package types

import (
	"time"

	"github.com/google/uuid"
)

// CollectionCategory is one node of a collection's category tree, stored
// flat with a self-referential parent link. ParentID nil means a
// top-level category; set means a subcategory. Depth is two in practice:
// a subcategory's parent must be a top-level row in the same collection.
type CollectionCategory struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CollectionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"collection_id"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	Description  string     `gorm:"column:description" json:"description,omitempty"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	OrderIndex   *int       `gorm:"column:order_index" json:"order_index,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (CollectionCategory) TableName() string {
	return "collection_categories"
}
