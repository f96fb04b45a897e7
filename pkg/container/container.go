package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"marketplace-backend/internal/config"
	infraCache "marketplace-backend/internal/infrastructure/cache"
	"marketplace-backend/internal/infrastructure/database"
	"marketplace-backend/internal/infrastructure/push"
	"marketplace-backend/internal/infrastructure/storage"
	"marketplace-backend/pkg/cache"
	"marketplace-backend/pkg/jwt"

	categoryHandler "marketplace-backend/internal/domains/category/handler"
	categoryRepo "marketplace-backend/internal/domains/category/repository"
	categoryService "marketplace-backend/internal/domains/category/service"
	couponHandler "marketplace-backend/internal/domains/coupon/handler"
	couponRepo "marketplace-backend/internal/domains/coupon/repository"
	couponService "marketplace-backend/internal/domains/coupon/service"
	orderHandler "marketplace-backend/internal/domains/order/handler"
	orderRepo "marketplace-backend/internal/domains/order/repository"
	orderService "marketplace-backend/internal/domains/order/service"
	productHandler "marketplace-backend/internal/domains/product/handler"
	productRepo "marketplace-backend/internal/domains/product/repository"
	productService "marketplace-backend/internal/domains/product/service"
	reviewHandler "marketplace-backend/internal/domains/review/handler"
	reviewRepo "marketplace-backend/internal/domains/review/repository"
	reviewService "marketplace-backend/internal/domains/review/service"
	shopHandler "marketplace-backend/internal/domains/shop/handler"
	shopRepo "marketplace-backend/internal/domains/shop/repository"
	shopService "marketplace-backend/internal/domains/shop/service"
	userHandler "marketplace-backend/internal/domains/user/handler"
	userRepo "marketplace-backend/internal/domains/user/repository"
	userService "marketplace-backend/internal/domains/user/service"
)

// =====================================================
// CONTAINER
// =====================================================

// Container is the root of the dependency graph. Everything in it is
// a singleton built once at startup; both the API and the worker
// binaries assemble themselves from it.
type Container struct {
	// Infrastructure
	Config         *config.Config
	DB             *database.PostgresDB
	Cache          cache.Cache
	JWTManager     *jwt.Manager
	AsynqClient    *asynq.Client
	Push           push.Provider
	Minio          *storage.MinIOStorage
	ImageProcessor *storage.ImageProcessor

	// Repositories
	UserRepo     userRepo.UserRepository
	ShopRepo     shopRepo.ShopRepository
	CategoryRepo categoryRepo.CategoryRepository
	ProductRepo  productRepo.ProductRepository
	CouponRepo   couponRepo.CouponRepository
	OrderRepo    orderRepo.OrderRepository
	ReviewRepo   reviewRepo.ReviewRepository

	// Services
	UserService     userService.UserService
	ShopService     shopService.ShopService
	CategoryService categoryService.CategoryService
	ProductService  productService.ProductService
	CouponService   couponService.CouponService
	OrderService    orderService.OrderService
	ReviewService   reviewService.ReviewService

	// HTTP handlers
	UserHandler     *userHandler.UserHandler
	ShopHandler     *shopHandler.ShopHandler
	CategoryHandler *categoryHandler.CategoryHandler
	ProductHandler  *productHandler.ProductHandler
	CouponHandler   *couponHandler.CouponHandler
	OrderHandler    *orderHandler.OrderHandler
	ReviewHandler   *reviewHandler.ReviewHandler
}

// NewContainer builds the whole dependency graph in order: config,
// infrastructure, repositories, services, handlers. A failure at any
// step aborts startup.
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing container...")

	c := &Container{}

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("📋 Config loaded")

	// 2. PostgreSQL
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("🗄️  Database connected")

	// 3. Redis cache. A dead Redis degrades caching but must not block
	// startup; every cache consumer tolerates misses.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(ctx); err != nil {
			log.Warn().Err(err).Msg("⚠️  Redis connection failed, continuing without cache")
		} else {
			log.Info().Msg("🔴 Redis connected")
		}
	}
	c.Cache = redisCache

	// 4. Task queue client (producer side)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 5. JWT
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	// 6. Push provider
	switch cfg.Push.Provider {
	case "fcm":
		c.Push = push.NewFCMPushService(cfg.Push.FCMServerKey)
		log.Info().Msg("📱 Push provider: FCM")
	default:
		c.Push = push.NewMockPushService()
		log.Info().Msg("📱 Push provider: mock")
	}

	// 7. Object storage
	minio, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init MinIO storage: %w", err)
	}
	c.Minio = minio
	c.ImageProcessor = storage.NewImageProcessor()
	log.Info().Str("bucket", cfg.MinIO.Bucket).Msg("🪣 MinIO storage ready")

	// 8. Domain layers
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("🎉 Container initialized")
	return c, nil
}

// =====================================================
// LAYER INITIALIZATION
// =====================================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.ShopRepo = shopRepo.NewPostgresShopRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresCategoryRepository(pool)
	c.ProductRepo = productRepo.NewPostgresProductRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresCouponRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ShopService = shopService.NewShopService(c.ShopRepo, c.Config.Pricing)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.ProductService = productService.NewProductService(
		c.ProductRepo,
		c.CategoryRepo,
		c.ShopService,
		c.Cache,
		c.ImageProcessor,
		c.Minio,
	)
	c.CouponService = couponService.NewCouponService(
		c.CouponRepo,
		c.ProductRepo,
		c.CategoryRepo,
		c.ShopService,
	)
	c.OrderService = orderService.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.CouponRepo,
		c.CouponService,
		c.ShopService,
		c.Cache,
		c.AsynqClient,
		c.Config.Pricing,
	)
	c.ReviewService = reviewService.NewReviewService(
		c.ReviewRepo,
		c.OrderRepo,
		c.ProductRepo,
		c.UserRepo,
	)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ShopHandler = shopHandler.NewShopHandler(c.ShopService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.ProductHandler = productHandler.NewProductHandler(c.ProductService)
	c.CouponHandler = couponHandler.NewCouponHandler(c.CouponService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// =====================================================
// CLEANUP
// =====================================================

// Cleanup releases held connections. Called from graceful shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close asynq client")
		}
	}

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close Redis client")
			}
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
