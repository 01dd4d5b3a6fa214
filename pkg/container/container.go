package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/config"
	"manifest-analyzer/internal/infrastructure/ai"
	infraCache "manifest-analyzer/internal/infrastructure/cache"
	"manifest-analyzer/internal/infrastructure/database"
	"manifest-analyzer/internal/infrastructure/storage"
	"manifest-analyzer/pkg/cache"
	"manifest-analyzer/pkg/jwt"

	manifestHandler "manifest-analyzer/internal/domains/manifest/handler"
	manifestRepo "manifest-analyzer/internal/domains/manifest/repository"
	manifestService "manifest-analyzer/internal/domains/manifest/service"
	"manifest-analyzer/internal/domains/user"
	userHandler "manifest-analyzer/internal/domains/user/handler"
	userRepo "manifest-analyzer/internal/domains/user/repository"
	userService "manifest-analyzer/internal/domains/user/service"
	valuationHandler "manifest-analyzer/internal/domains/valuation/handler"
	valuationService "manifest-analyzer/internal/domains/valuation/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the whole process.
type Container struct {
	// infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	MinIO       *storage.MinIOStorage
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	Gemini      *ai.GeminiClient // nil when no API key is configured

	// repositories
	UserRepo     user.Repository
	ManifestRepo manifestRepo.ManifestRepository

	// services
	UserService     userService.UserService
	ManifestService manifestService.ManifestService
	ValuationAgent  *valuationService.Agent

	// handlers
	UserHandler      *userHandler.UserHandler
	ManifestHandler  *manifestHandler.ManifestHandler
	ValuationHandler *valuationHandler.ValuationHandler
}

// NewContainer builds the whole graph. Initialization order matters:
// config, then infrastructure, then repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("configuration loaded")

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	c.DB = database.NewPostgresDB(dbConfig)
	if err := c.DB.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}

	c.Cache = infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := c.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.MinIO, err = storage.NewMinIOStorage(c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize minio storage: %w", err)
	}

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})

	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret,
		c.Config.JWT.AccessTokenExpiry,
		c.Config.JWT.RefreshTokenExpiry,
	)

	if c.Config.Gemini.APIKey != "" {
		c.Gemini, err = ai.NewGeminiClient(c.Config.Gemini.APIKey, c.Config.Gemini.Model)
		if err != nil {
			return fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		log.Info().Str("model", c.Config.Gemini.Model).Msg("gemini client enabled")
	} else {
		log.Info().Msg("gemini disabled, using deterministic fallbacks")
	}

	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool
	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.ManifestRepo = manifestRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	c.ManifestService = manifestService.NewManifestService(
		c.ManifestRepo,
		c.DB.Pool,
		c.MinIO,
		c.Cache,
		c.AsynqClient,
		c.Config.Upload.MaxFileSizeMB,
	)

	var notes valuationService.NotesGenerator
	if c.Gemini != nil {
		notes = c.Gemini
	}
	c.ValuationAgent = valuationService.NewAgent(notes)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ManifestHandler = manifestHandler.NewManifestHandler(c.ManifestService)
	c.ValuationHandler = valuationHandler.NewValuationHandler(c.ValuationAgent)
}

// Cleanup releases connections on shutdown, in reverse init order
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close asynq client")
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database pool")
		}
	}
	log.Info().Msg("container cleaned up")
}
