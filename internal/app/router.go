package app

import (
	"github.com/gin-gonic/gin"

	"github.com/hrdesk/hrdesk-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:       cfg.ServiceName,
		AllowOrigins:      cfg.AllowOrigins,
		AuthHandler:       handlerset.Auth,
		AuthMiddleware:    middlewareset.Auth,
		ClassifyHandler:   handlerset.Classify,
		CollectionHandler: handlerset.Collection,
		UserHandler:       handlerset.User,
		WorkspaceHandler:  handlerset.Workspace,
	})
}
