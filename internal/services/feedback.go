package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type RecordFeedbackParams struct {
	ClassificationID  uuid.UUID
	UserID            *uuid.UUID
	CorrectCategoryID *uuid.UUID
	IsCorrect         *bool
}

// FeedbackService records human verdicts on stored classifications,
// the raw material for taxonomy and prompt tuning.
type FeedbackService interface {
	RecordFeedback(ctx context.Context, params RecordFeedbackParams) (*types.ClassificationFeedback, error)
}

type feedbackService struct {
	db           *gorm.DB
	log          *logger.Logger
	feedbackRepo repos.ClassificationFeedbackRepo
	resultRepo   repos.ClassificationRepo
}

func NewFeedbackService(db *gorm.DB, log *logger.Logger, feedbackRepo repos.ClassificationFeedbackRepo, resultRepo repos.ClassificationRepo) FeedbackService {
	serviceLog := log.With("service", "FeedbackService")
	return &feedbackService{db: db, log: serviceLog, feedbackRepo: feedbackRepo, resultRepo: resultRepo}
}

func (fs *feedbackService) RecordFeedback(ctx context.Context, params RecordFeedbackParams) (*types.ClassificationFeedback, error) {
	existing, err := fs.resultRepo.GetByIDs(ctx, nil, []uuid.UUID{params.ClassificationID})
	if err != nil {
		return nil, fmt.Errorf("load classification: %w", err)
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("classification not found: %s", params.ClassificationID)
	}
	feedback := &types.ClassificationFeedback{
		ID:                uuid.New(),
		ClassificationID:  params.ClassificationID,
		UserID:            params.UserID,
		CorrectCategoryID: params.CorrectCategoryID,
		IsCorrect:         params.IsCorrect,
	}
	if _, err := fs.feedbackRepo.Create(ctx, nil, []*types.ClassificationFeedback{feedback}); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return feedback, nil
}
