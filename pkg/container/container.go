package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/config"
	"accessrating-backend/internal/infrastructure/cache"
	"accessrating-backend/internal/infrastructure/database"
	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/pkg/jwt"
	"accessrating-backend/pkg/metrics"

	assessmentHandler "accessrating-backend/internal/domains/assessment/handler"
	assessmentRepo "accessrating-backend/internal/domains/assessment/repository"
	assessmentService "accessrating-backend/internal/domains/assessment/service"
	businessHandler "accessrating-backend/internal/domains/business/handler"
	businessRepo "accessrating-backend/internal/domains/business/repository"
	businessService "accessrating-backend/internal/domains/business/service"
	directoryHandler "accessrating-backend/internal/domains/directory/handler"
	directoryRepo "accessrating-backend/internal/domains/directory/repository"
	directoryService "accessrating-backend/internal/domains/directory/service"
	favoriteHandler "accessrating-backend/internal/domains/favorite/handler"
	favoriteRepo "accessrating-backend/internal/domains/favorite/repository"
	favoriteService "accessrating-backend/internal/domains/favorite/service"
	reviewHandler "accessrating-backend/internal/domains/review/handler"
	reviewRepo "accessrating-backend/internal/domains/review/repository"
	reviewService "accessrating-backend/internal/domains/review/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is built
// once at startup and shared for the process lifetime.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *cache.RedisClient
	JWTManager  *jwt.Manager
	Metrics     *metrics.Registry
	RateLimiter *middleware.RateLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	BusinessRepo   *businessRepo.PostgresRepository
	AssessmentRepo assessmentRepo.Repository
	ReviewRepo     reviewRepo.ReviewRepository
	FavoriteRepo   favoriteRepo.Repository
	DirectoryRepo  directoryRepo.Repository
	SearchHistory  directoryRepo.HistoryStore

	// ========================================
	// SERVICE LAYER
	// ========================================
	BusinessService   *businessService.BusinessService
	AssessmentService assessmentService.ServiceInterface
	ReviewService     reviewService.ServiceInterface
	FavoriteService   favoriteService.ServiceInterface
	DirectoryService  directoryService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	BusinessHandler   *businessHandler.BusinessHandler
	AssessmentHandler *assessmentHandler.AssessmentHandler
	ReviewHandler     *reviewHandler.ReviewHandler
	FavoriteHandler   *favoriteHandler.FavoriteHandler
	DirectoryHandler  *directoryHandler.DirectoryHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer wires the application. Order matters:
// config, infrastructure, repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Msg("[CONTAINER] initializing")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database.PoolConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 2: REDIS
	// ========================================
	// Redis only backs search history, so a failed connection is not fatal.
	c.Redis = cache.NewRedisClient(cfg.Redis.ClientOptions())
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] redis unavailable, search history disabled until it recovers")
	}

	// ========================================
	// STEP 3: SHARED COMPONENTS
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	c.Metrics = metrics.New()
	c.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)

	// ========================================
	// STEP 4: REPOSITORIES / SERVICES / HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Str("env", cfg.App.Environment).Msg("[CONTAINER] initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.BusinessRepo = businessRepo.NewPostgresRepository(pool)
	c.AssessmentRepo = assessmentRepo.NewPostgresRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.FavoriteRepo = favoriteRepo.NewPostgresRepository(pool)
	c.DirectoryRepo = directoryRepo.NewPostgresRepository(pool)
	c.SearchHistory = directoryRepo.NewRedisHistoryStore(
		c.Redis,
		c.Config.Search.HistorySize,
		c.Config.Search.HistoryTTL,
	)
}

func (c *Container) initServices() {
	c.BusinessService = businessService.NewBusinessService(c.BusinessRepo, c.Metrics)

	// The business repository is the only RatingWriter in the graph.
	c.AssessmentService = assessmentService.NewAssessmentService(
		c.AssessmentRepo,
		c.BusinessRepo,
		c.BusinessService,
		c.Metrics,
		c.Config.Assessment.ReassessmentYears,
	)

	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BusinessService, c.Metrics)
	c.FavoriteService = favoriteService.NewFavoriteService(c.FavoriteRepo, c.BusinessService)
	c.DirectoryService = directoryService.NewDirectoryService(c.DirectoryRepo, c.SearchHistory)
}

func (c *Container) initHandlers() {
	c.BusinessHandler = businessHandler.NewBusinessHandler(c.BusinessService)
	c.AssessmentHandler = assessmentHandler.NewAssessmentHandler(c.AssessmentService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.FavoriteHandler = favoriteHandler.NewFavoriteHandler(c.FavoriteService)
	c.DirectoryHandler = directoryHandler.NewDirectoryHandler(c.DirectoryService)
}

// Cleanup releases pooled connections during graceful shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] cleaning up")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] failed to close database")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("[CONTAINER] failed to close redis")
		}
	}
}
