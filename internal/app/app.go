// Package app assembles repositories, services and the HTTP application.
package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/staff-registry/internal/api/http"
	"github.com/spec-kit/staff-registry/internal/api/http/handlers"
	"github.com/spec-kit/staff-registry/internal/auth"
	"github.com/spec-kit/staff-registry/internal/config"
	"github.com/spec-kit/staff-registry/internal/events"
	"github.com/spec-kit/staff-registry/internal/observability"
	"github.com/spec-kit/staff-registry/internal/persistence"
	"github.com/spec-kit/staff-registry/internal/repository"
	"github.com/spec-kit/staff-registry/internal/repository/memory"
	"github.com/spec-kit/staff-registry/internal/service"
)

// Stores are the repository implementations the services run on.
type Stores struct {
	Staff       repository.StaffRepository
	Assignments repository.AssignmentRepository
	Reference   repository.ReferenceRepository
	Devices     repository.DeviceRepository
}

// PostgresStores builds pgx-backed repositories.
func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Staff:       repository.NewStaffRepository(pool),
		Assignments: repository.NewAssignmentRepository(pool),
		Reference:   repository.NewReferenceRepository(pool),
		Devices:     repository.NewDeviceRepository(pool),
	}
}

// MemoryStores backs every repository with one in-memory store.
func MemoryStores(store *memory.Store) Stores {
	return Stores{Staff: store, Assignments: store, Reference: store, Devices: store}
}

// WithReferenceCache wraps the reference repository with the redis cache.
func (s Stores) WithReferenceCache(cfg config.RedisConfig, client *redis.Client, logger *zap.Logger, metrics *observability.Metrics) Stores {
	s.Reference = repository.NewCachedReferenceRepository(s.Reference, client, cfg.ReferenceCacheTTL(), logger, metrics)
	return s
}

// Services holds the application services.
type Services struct {
	Dispatcher  events.Dispatcher
	Reference   *service.ReferenceService
	Assignments *service.AssignmentService
	Staff       *service.StaffService
	Roster      *service.RosterService
	Devices     *service.DeviceService
	Activity    *service.ActivityService
}

// NewServices wires the services over stores.
func NewServices(stores Stores, clock service.Clock, logger *zap.Logger, metrics *observability.Metrics) *Services {
	dispatcher := events.NewInMemoryDispatcher()
	reference := service.NewReferenceService(stores.Reference)
	assignments := service.NewAssignmentService(service.AssignmentDependencies{
		AssignmentRepo: stores.Assignments,
		StaffRepo:      stores.Staff,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Clock:          clock,
	})
	staff := service.NewStaffService(service.StaffDependencies{
		StaffRepo:      stores.Staff,
		AssignmentRepo: stores.Assignments,
		Assignments:    assignments,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Clock:          clock,
	})
	var recorder service.LedgerRecorder
	if metrics != nil {
		recorder = metrics
	}
	return &Services{
		Dispatcher:  dispatcher,
		Reference:   reference,
		Assignments: assignments,
		Staff:       staff,
		Roster:      service.NewRosterService(stores.Staff, clock),
		Devices:     service.NewDeviceService(stores.Devices, dispatcher, logger),
		Activity:    service.NewActivityService(dispatcher, logger, recorder),
	}
}

// HTTPDependencies are the collaborators of the fiber application.
type HTTPDependencies struct {
	Config   config.Config
	Services *Services
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// NewHTTPApp builds the fiber application with middleware and routes.
func NewHTTPApp(deps HTTPDependencies) (*fiber.App, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	creds, err := auth.NewCredentials(cfg.Admin, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(tokens, creds, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, deps.Metrics, cfg.App.RequestTimeout())

	svcs := deps.Services
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Postgres, deps.Redis),
		Reference:      handlers.NewReferenceHandler(svcs.Reference),
		Staff:          handlers.NewStaffHandler(svcs.Staff, svcs.Roster),
		Assignments:    handlers.NewAssignmentHandler(svcs.Assignments),
		Export:         handlers.NewExportHandler(svcs.Roster),
		Auth:           handlers.NewAuthHandler(authService),
		Devices:        handlers.NewDeviceHandler(svcs.Devices),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, creds),
		Metrics:        deps.Metrics,
	})
	return app, nil
}
