package app

import (
	"github.com/hrdesk/hrdesk-backend/internal/handlers"
	"github.com/hrdesk/hrdesk-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Classify   *handlers.ClassifyHandler
	Collection *handlers.CollectionHandler
	User       *handlers.UserHandler
	Workspace  *handlers.WorkspaceHandler
}

func wireHandlers(log *logger.Logger, cfg Config, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(serviceset.Auth),
		Classify:   handlers.NewClassifyHandler(log, serviceset.Classification, serviceset.Feedback, cfg.DefaultCollection),
		Collection: handlers.NewCollectionHandler(serviceset.Collection),
		User:       handlers.NewUserHandler(serviceset.User),
		Workspace:  handlers.NewWorkspaceHandler(serviceset.Workspace),
	}
}
