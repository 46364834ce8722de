package app

import (
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
)

type Repos struct {
	User                   repos.UserRepo
	UserToken              repos.UserTokenRepo
	Workspace              repos.WorkspaceRepo
	Collection             repos.CollectionRepo
	Category               repos.CategoryRepo
	Input                  repos.InputRepo
	ClassificationJob      repos.ClassificationJobRepo
	Classification         repos.ClassificationRepo
	ClassificationFeedback repos.ClassificationFeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                   repos.NewUserRepo(db, log),
		UserToken:              repos.NewUserTokenRepo(db, log),
		Workspace:              repos.NewWorkspaceRepo(db, log),
		Collection:             repos.NewCollectionRepo(db, log),
		Category:               repos.NewCategoryRepo(db, log),
		Input:                  repos.NewInputRepo(db, log),
		ClassificationJob:      repos.NewClassificationJobRepo(db, log),
		Classification:         repos.NewClassificationRepo(db, log),
		ClassificationFeedback: repos.NewClassificationFeedbackRepo(db, log),
	}
}
