package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/platform/openrouter"
	"github.com/hrdesk/hrdesk-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	User           services.UserService
	Workspace      services.WorkspaceService
	Collection     services.CollectionService
	Taxonomy       services.TaxonomyService
	Classifier     services.ClassifierService
	Classification services.ClassificationService
	Feedback       services.FeedbackService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	authService := services.NewAuthService(
		db, log,
		repos.User,
		repos.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	userService := services.NewUserService(db, log, repos.User)
	workspaceService := services.NewWorkspaceService(db, log, repos.Workspace)
	collectionService := services.NewCollectionService(db, log, repos.Collection, repos.Category)
	taxonomyService := services.NewTaxonomyService(db, log, repos.Collection, repos.Category)

	llmClient, err := openrouter.NewClient(log, openrouter.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init openrouter client: %w", err)
	}
	classifierService := services.NewClassifierService(log, llmClient)

	classificationService := services.NewClassificationService(
		db, log,
		taxonomyService,
		classifierService,
		repos.Collection,
		repos.Category,
		repos.Input,
		repos.ClassificationJob,
		repos.Classification,
		cfg.DefaultProvider,
		cfg.DefaultModel,
		cfg.LLMTimeout,
	)

	feedbackService := services.NewFeedbackService(db, log, repos.ClassificationFeedback, repos.Classification)

	return Services{
		Auth:           authService,
		User:           userService,
		Workspace:      workspaceService,
		Collection:     collectionService,
		Taxonomy:       taxonomyService,
		Classifier:     classifierService,
		Classification: classificationService,
		Feedback:       feedbackService,
	}, nil
}
