package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sequor/internal/application/coderule/usecases"
	"sequor/internal/infrastructure/config"
	"sequor/internal/infrastructure/email"
	"sequor/internal/infrastructure/ratelimit"
	"sequor/internal/infrastructure/repository"
	"sequor/internal/interfaces/http/handlers"
	"sequor/internal/interfaces/http/middleware"
	"sequor/internal/interfaces/http/routes"
	"sequor/internal/shared/logger"
)

// Router wires repositories, use cases and handlers into a gin engine.
type Router struct {
	engine *gin.Engine
}

// NewRouter builds the HTTP surface. redisClient may be nil; allocation
// then runs without rate limiting.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	engine.Use(middleware.SecurityHeaders())

	ruleRepo := repository.NewCodeRuleRepository(db, log)

	var notifier usecases.CapacityAlertNotifier
	if cfg.Alert.Enabled {
		notifier = email.NewAlertMailer(email.SMTPConfig{
			Host:                 cfg.Alert.SMTPHost,
			Port:                 cfg.Alert.SMTPPort,
			Username:             cfg.Alert.SMTPUser,
			Password:             cfg.Alert.SMTPPassword,
			FromAddress:          cfg.Alert.FromAddress,
			FromName:             cfg.Alert.FromName,
			AdminAddress:         cfg.Alert.AdminAddress,
			UtilizationThreshold: cfg.Alert.UtilizationThreshold,
		}, log)
	}

	allocateUC := usecases.NewAllocateCodeUseCase(ruleRepo, notifier, log).
		WithRetryPolicy(cfg.Allocation.MaxRetries, time.Duration(cfg.Allocation.RetryBackoffMs)*time.Millisecond)

	codeRuleHandler := handlers.NewCodeRuleHandler(
		usecases.NewCreateCodeRuleUseCase(ruleRepo, log),
		usecases.NewUpdateCodeRuleUseCase(ruleRepo, log),
		usecases.NewGetCodeRuleUseCase(ruleRepo, log),
		usecases.NewListCodeRulesUseCase(ruleRepo, log),
		usecases.NewDeleteCodeRuleUseCase(ruleRepo, log),
		usecases.NewSetActivationUseCase(ruleRepo, log),
		usecases.NewResetCounterUseCase(ruleRepo, log),
		usecases.NewPreviewCodeUseCase(ruleRepo),
	)
	allocationHandler := handlers.NewAllocationHandler(allocateUC)

	var allocationLimit gin.HandlerFunc
	if redisClient != nil && cfg.Allocation.RequestsPerMinute > 0 {
		limiter := ratelimit.NewRedisRateLimiter(redisClient)
		allocationLimit = middleware.AllocationRateLimit(limiter, ratelimit.Config{
			RequestsPerMinute: cfg.Allocation.RequestsPerMinute,
		}, log)
	}

	routes.SetupCodeRuleRoutes(engine, &routes.CodeRuleRouteConfig{
		CodeRuleHandler:     codeRuleHandler,
		AllocationHandler:   allocationHandler,
		AllocationRateLimit: allocationLimit,
	})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return &Router{engine: engine}
}

// Engine returns the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
