package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"publisher-backend/internal/config"
	infraCache "publisher-backend/internal/infrastructure/cache"
	"publisher-backend/internal/infrastructure/database"
	"publisher-backend/pkg/cache"

	authorHandler "publisher-backend/internal/domains/author/handler"
	authorRepo "publisher-backend/internal/domains/author/repository"
	authorService "publisher-backend/internal/domains/author/service"

	bookHandler "publisher-backend/internal/domains/book/handler"
	bookRepo "publisher-backend/internal/domains/book/repository"
	bookService "publisher-backend/internal/domains/book/service"

	customerHandler "publisher-backend/internal/domains/customer/handler"
	customerRepo "publisher-backend/internal/domains/customer/repository"
	customerService "publisher-backend/internal/domains/customer/service"

	saleHandler "publisher-backend/internal/domains/sale/handler"
	saleRepo "publisher-backend/internal/domains/sale/repository"
	saleService "publisher-backend/internal/domains/sale/service"

	commissionHandler "publisher-backend/internal/domains/commission/handler"
	commissionRepo "publisher-backend/internal/domains/commission/repository"
	commissionService "publisher-backend/internal/domains/commission/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the process lifetime.
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB
	Cache  cache.Cache

	AuthorRepo     authorRepo.RepositoryInterface
	BookRepo       bookRepo.RepositoryInterface
	CustomerRepo   customerRepo.RepositoryInterface
	SaleRepo       saleRepo.RepositoryInterface
	CommissionRepo commissionRepo.RepositoryInterface

	AuthorService     authorService.ServiceInterface
	BookService       bookService.ServiceInterface
	CustomerService   customerService.ServiceInterface
	SaleService       saleService.ServiceInterface
	CommissionService commissionService.ServiceInterface

	AuthorHandler     *authorHandler.AuthorHandler
	BookHandler       *bookHandler.BookHandler
	CustomerHandler   *customerHandler.CustomerHandler
	SaleHandler       *saleHandler.SaleHandler
	CommissionHandler *commissionHandler.CommissionHandler
}

// NewContainer builds the whole graph. Initialization order matters:
// config, then infrastructure, then repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

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
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		// Redis is a read-through cache only, so a failed connection is
		// degraded performance, not a startup failure.
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresRepository(pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.CustomerRepo = customerRepo.NewPostgresRepository(pool)
	c.SaleRepo = saleRepo.NewPostgresRepository(pool)
	c.CommissionRepo = commissionRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)
	c.CustomerService = customerService.NewCustomerService(c.CustomerRepo)
	c.SaleService = saleService.NewSaleService(c.SaleRepo, c.BookRepo, c.CustomerService)
	c.CommissionService = commissionService.NewCommissionService(
		c.DB.Pool,
		c.CommissionRepo,
		c.SaleRepo,
		c.AuthorRepo,
		c.Config.Commission.DefaultAuthorSharePercent,
	)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.CustomerHandler = customerHandler.NewCustomerHandler(c.CustomerService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)
	c.CommissionHandler = commissionHandler.NewCommissionHandler(c.CommissionService)
}

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			}
		}
	}
}
