package app

import (
	"strings"
	"time"

	"github.com/hrdesk/hrdesk-backend/internal/db"
	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/utils"
)

type Config struct {
	ServiceName     string
	Environment     string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	LLMTimeout        time.Duration
	DefaultProvider   string
	DefaultModel      string
	DefaultCollection string

	SeedTaxonomy bool
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	llmTimeoutSeconds := utils.GetEnvAsInt("LLM_TIMEOUT_SECONDS", 60, log)

	var origins []string
	for _, o := range strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		ServiceName:     utils.GetEnv("SERVICE_NAME", "hrdesk-backend", log),
		Environment:     utils.GetEnv("APP_ENV", "development", log),
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,

		OpenRouterAPIKey:  utils.GetEnv("OPENROUTER_API_KEY", "", log),
		OpenRouterBaseURL: utils.GetEnv("OPENROUTER_BASE_URL", "", log),
		LLMTimeout:        time.Duration(llmTimeoutSeconds) * time.Second,
		DefaultProvider:   utils.GetEnv("DEFAULT_LLM_PROVIDER", "openrouter", log),
		DefaultModel:      utils.GetEnv("DEFAULT_LLM_MODEL", "mistralai/mistral-7b-instruct:free", log),
		DefaultCollection: utils.GetEnv("DEFAULT_COLLECTION_NAME", db.DefaultCollectionName, log),

		SeedTaxonomy: utils.GetEnvAsBool("SEED_TAXONOMY", true, log),
		AllowOrigins: origins,
	}
}
