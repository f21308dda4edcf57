package routes

import (
	"github.com/gin-gonic/gin"

	"sequor/internal/interfaces/http/handlers"
)

// CodeRuleRouteConfig holds dependencies for code rule routes.
type CodeRuleRouteConfig struct {
	CodeRuleHandler   *handlers.CodeRuleHandler
	AllocationHandler *handlers.AllocationHandler
	// AllocationRateLimit throttles the allocation endpoints when set.
	AllocationRateLimit gin.HandlerFunc
}

// SetupCodeRuleRoutes configures the code rule admin API and the
// allocation endpoints.
func SetupCodeRuleRoutes(engine *gin.Engine, cfg *CodeRuleRouteConfig) {
	v1 := engine.Group("/api/v1")

	rules := v1.Group("/code-rules")
	{
		// Specific paths registered before parameterized ones.
		rules.POST("/preview", cfg.CodeRuleHandler.PreviewTransientCode)
		rules.GET("/by-entity/:entity_code", cfg.CodeRuleHandler.GetCodeRuleByEntityCode)

		rules.POST("", cfg.CodeRuleHandler.CreateCodeRule)
		rules.GET("", cfg.CodeRuleHandler.ListCodeRules)
		rules.GET("/:id", cfg.CodeRuleHandler.GetCodeRule)
		rules.PUT("/:id", cfg.CodeRuleHandler.UpdateCodeRule)
		rules.DELETE("/:id", cfg.CodeRuleHandler.DeleteCodeRule)
		rules.PATCH("/:id/status", cfg.CodeRuleHandler.UpdateCodeRuleStatus)
		rules.POST("/:id/reset-counter", cfg.CodeRuleHandler.ResetCounter)
		rules.POST("/:id/preview", cfg.CodeRuleHandler.PreviewCode)
	}

	codes := v1.Group("/codes")
	if cfg.AllocationRateLimit != nil {
		codes.Use(cfg.AllocationRateLimit)
	}
	{
		codes.POST("/allocate", cfg.AllocationHandler.AllocateCode)
		codes.POST("/allocate/:entity_code", cfg.AllocationHandler.AllocateCodeForEntity)
	}
}
