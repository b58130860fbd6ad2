package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"rex-crm-client/internal/handlers"
	"rex-crm-client/internal/middleware"
	"rex-crm-client/pkg/cache"
	"rex-crm-client/pkg/config"
	"rex-crm-client/pkg/logger"
	"rex-crm-client/pkg/metrics"
	"rex-crm-client/pkg/rex"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// App represents the application structure
type App struct {
	Config         *config.Config
	Router         *gin.Engine
	Client         *rex.Client
	Redis          *redis.Client
	DescribeCache  *cache.DescribeCache
	SessionHandler *handlers.SessionHandler
	ServiceHandler *handlers.ServiceHandler
	RateLimiter    *middleware.RateLimiter
	Server         *http.Server

	stopCleanup context.CancelFunc
}

// Create and initialize a new App instance
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.initializeMetrics()
	if err := app.initializeCache(ctx); err != nil {
		return nil, err
	}
	app.initializeRateLimiter()
	app.initializeClient(ctx)
	app.initializeDependencies()
	app.initializeRouter()

	return app, nil
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// connect to Redis when the describe cache is enabled
func (a *App) initializeCache(ctx context.Context) error {
	if !a.Config.Redis.Enabled {
		logger.GlobalLogger.Println("Redis disabled, describe results are not cached")
		return nil
	}

	client, err := cache.NewRedisClient(ctx, a.Config.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	a.Redis = client
	a.DescribeCache = cache.NewDescribeCache(client, a.Config.Redis.DescribeTTL)
	return nil
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(middleware.PerMinute(a.Config.RateLimit.PerMinute), a.Config.RateLimit.Burst)

	ctx, cancel := context.WithCancel(context.Background())
	a.stopCleanup = cancel
	go a.RateLimiter.Cleanup(ctx, time.Hour)
}

// build the Rex client and log in when credentials are configured
func (a *App) initializeClient(ctx context.Context) {
	a.Client = rex.NewClient(
		rex.WithBaseURL(a.Config.Rex.BaseURL),
		rex.WithApplication(a.Config.Rex.Application),
		rex.WithHTTPClient(&http.Client{Timeout: a.Config.Rex.Timeout}),
		rex.WithUserAgent("rex-crm-gateway"),
	)

	if !a.Config.HasCredentials() {
		logger.GlobalLogger.Println("No Rex credentials configured, waiting for POST /api/login")
		return
	}
	if _, err := a.Client.Login(ctx, a.Config.Rex.Email, a.Config.Rex.Password); err != nil {
		logger.GlobalLogger.Errorf("Startup login as %s failed: %v", a.Config.Rex.Email, err)
	}
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	// a nil *cache.DescribeCache must not become a non-nil interface
	var describeCache handlers.DescribeCache
	if a.DescribeCache != nil {
		describeCache = a.DescribeCache
	}

	a.SessionHandler = handlers.NewSessionHandler(a.Client, describeCache)
	a.ServiceHandler = handlers.NewServiceHandler(a.Client, describeCache)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup(ctx context.Context) {
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if err := a.Client.Logout(ctx); err != nil {
		logger.GlobalLogger.Errorf("Logout failed: %v", err)
	}
	if a.Redis != nil {
		cache.Close(a.Redis)
	}
}
