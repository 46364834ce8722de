package types

import (
	"time"

	"github.com/google/uuid"
)

type ClassificationFeedback struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassificationID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"classification_id"`
	UserID            *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CorrectCategoryID *uuid.UUID `gorm:"type:uuid" json:"correct_category_id,omitempty"`
	IsCorrect         *bool      `gorm:"column:is_correct" json:"is_correct,omitempty"`
	CreatedAt         time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (ClassificationFeedback) TableName() string {
	return "classification_feedback"
}
