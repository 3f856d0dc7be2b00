package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/fitlife-api/internal/application"
	"github.com/oksasatya/fitlife-api/internal/container"
	repo "github.com/oksasatya/fitlife-api/internal/domain/repository"
	"github.com/oksasatya/fitlife-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/fitlife-api/internal/infrastructure/postgres"
	"github.com/oksasatya/fitlife-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/fitlife-api/internal/interface/http"
	"github.com/oksasatya/fitlife-api/internal/interface/middleware"
	"github.com/oksasatya/fitlife-api/internal/router/modules"
	"github.com/oksasatya/fitlife-api/pkg/helpers"
)

type repositories struct {
	Users    repo.UserRepository
	Workouts repo.WorkoutRepository
}

// buildRepos uses Postgres when a pool is configured and the in-memory store otherwise.
func buildRepos() repositories {
	if pool := container.GetPGPool(); pool != nil {
		return repositories{
			Users:    pginfra.NewUserRepository(pool),
			Workouts: pginfra.NewWorkoutRepository(pool),
		}
	}
	return repositories{
		Users:    memory.NewUserRepository(),
		Workouts: memory.NewWorkoutRepository(),
	}
}

type ModuleDeps struct {
	Users       *application.UserService
	Workouts    *application.WorkoutService
	Predictions *application.PredictionService

	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Workout    *handlers.WorkoutHandler
	Prediction *handlers.PredictionHandler

	Gate gin.HandlerFunc
}

func buildDeps(repos repositories) ModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users := application.NewUserService(repos.Users, container.GetJWT(), container.GetRedis(), cfg.ProfileCacheTTL, logger)
	if up := helpers.NewGCSUploader(container.GetGCS(), cfg.GCSBucket); up != nil {
		users.WithAvatarStore(up)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		users.WithWelcomeEmails(pub, cfg)
	}

	var index application.WorkoutIndexer
	if es := container.GetES(); es != nil {
		index = search.NewWorkoutIndex(es, cfg.ESWorkoutsIndex)
	}
	workouts := application.NewWorkoutService(repos.Workouts, index, container.GetMetrics(), logger)
	predictions := application.NewPredictionService(container.GetPredictor(), logger)

	errs := handlers.NewErrorMapper(cfg.LegacyForbiddenAsUnauthorized, logger)
	return ModuleDeps{
		Users:       users,
		Workouts:    workouts,
		Predictions: predictions,
		Auth:        handlers.NewAuthHandler(users, errs, logger),
		User:        handlers.NewUserHandler(users, errs),
		Workout:     handlers.NewWorkoutHandler(workouts, errs),
		Prediction:  handlers.NewPredictionHandler(predictions, errs),
		Gate:        middleware.Auth(users, logger),
	}
}

// InitModules wires every feature module from the container and registers it with the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry) ModuleDeps {
	deps := buildDeps(buildRepos())

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(deps.Auth, deps.User, deps.Gate))
	r.Add(modules.NewWorkoutModule(deps.Workout, deps.Gate))
	r.Add(modules.NewPredictionModule(deps.Prediction, deps.Gate))
	if container.GetConfig().MetricsEnabled {
		r.AddRoot(modules.NewDebugModule(container.GetGatherer()))
	}
	return deps
}
