package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rollbook/rollbook-api/config"
	"github.com/rollbook/rollbook-api/internal/adapters/oidc"
	"github.com/rollbook/rollbook-api/internal/core"
	"github.com/rollbook/rollbook-api/internal/data"
	"github.com/rollbook/rollbook-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth        *service.AuthService
	Users       *service.UserService
	Rolls       *service.RollService
	Ingredients *service.IngredientService
	Photos      *service.PhotoService
	// OIDC is non-nil only when the OIDC login flow is configured.
	OIDC *oidc.Provider
}

// ServiceDeps contains dependencies for building services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	SessionRepo    *data.SessionRepo
	UserRepo       *data.UserRepo
	RollRepo       *data.RollRepo
	IngredientRepo *data.IngredientRepo
	PhotoRepo      *data.PhotoRepo
	SnapshotCache  core.SnapshotCache
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(deps *ServiceDeps) *serviceRepositories {
	repos := &serviceRepositories{
		SessionRepo:    data.NewSessionRepo(deps.DB, deps.Config.Auth.Session.Lifetime),
		UserRepo:       data.NewUserRepo(deps.DB),
		RollRepo:       data.NewRollRepo(deps.DB),
		IngredientRepo: data.NewIngredientRepo(deps.DB),
		PhotoRepo:      data.NewPhotoRepo(deps.DB),
	}
	if deps.RedisClient != nil {
		repos.SnapshotCache = data.NewRedisSnapshotCache(deps.RedisClient)
	}
	return repos
}

// NewServices builds the application service container from shared
// infrastructure.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	repos := buildRepositories(deps)

	container := ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Sessions:    repos.SessionRepo,
			Users:       repos.UserRepo,
			Cache:       repos.SnapshotCache,
			SnapshotTTL: deps.Config.Cache.SnapshotTTL,
		}),
		Users: service.NewUserService(service.UserServiceOptions{
			Users: repos.UserRepo,
			Cache: repos.SnapshotCache,
		}),
		Rolls: service.NewRollService(service.RollServiceOptions{
			Rolls:       repos.RollRepo,
			Ingredients: repos.IngredientRepo,
		}),
		Ingredients: service.NewIngredientService(service.IngredientServiceOptions{
			Ingredients: repos.IngredientRepo,
		}),
		Photos: service.NewPhotoService(service.PhotoServiceOptions{
			Photos:  repos.PhotoRepo,
			Uploads: deps.Config.Uploads,
		}),
	}

	if deps.Config.Auth.Mode == config.AuthModeOIDC {
		provider, err := oidc.NewProvider(ctx, deps.Config.Auth.OIDC)
		if err != nil {
			return container, fmt.Errorf("configure oidc provider: %w", err)
		}
		container.OIDC = provider
		if deps.Logger != nil {
			deps.Logger.InfoContext(ctx, "oidc login enabled",
				"provider", provider.Name())
		}
	}

	return container, nil
}
