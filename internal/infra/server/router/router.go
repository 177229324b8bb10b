// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                *gin.Engine
	healthController      *controller.HealthController
	accountController     *controller.AccountController
	categoryController    *controller.CategoryController
	transactionController *controller.TransactionController
	ruleController        *controller.RuleController
	importController      *controller.ImportController
	analyticsController   *controller.AnalyticsController
	uploadRateLimiter     *middleware.RateLimiter
	authMiddleware        *middleware.AuthMiddleware
	corsAllowedOrigin     string
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	accountController *controller.AccountController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	ruleController *controller.RuleController,
	importController *controller.ImportController,
	analyticsController *controller.AnalyticsController,
	uploadRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	corsAllowedOrigin string,
) *Router {
	return &Router{
		healthController:      healthController,
		accountController:     accountController,
		categoryController:    categoryController,
		transactionController: transactionController,
		ruleController:        ruleController,
		importController:      importController,
		analyticsController:   analyticsController,
		uploadRateLimiter:     uploadRateLimiter,
		authMiddleware:        authMiddleware,
		corsAllowedOrigin:     corsAllowedOrigin,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()
	r.engine.Use(middleware.CORS(r.corsAllowedOrigin))

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures the unauthenticated liveness endpoint.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/healthz", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	{
		if r.accountController != nil {
			accounts := v1.Group("/accounts")
			{
				accounts.GET("", r.accountController.List)
				accounts.POST("", r.accountController.Create)
				accounts.GET("/:id", r.accountController.Get)
				accounts.PATCH("/:id", r.accountController.Update)
				accounts.DELETE("/:id", r.accountController.Delete)
			}
		}

		if r.categoryController != nil {
			categories := v1.Group("/categories")
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
			}
		}

		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("/recategorize", r.transactionController.Recategorize)
				transactions.GET("/:id", r.transactionController.Get)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.POST("/:id/split", r.transactionController.Split)
				transactions.POST("/:id/unsplit", r.transactionController.Unsplit)
				transactions.GET("/:id/splits", r.transactionController.GetSplits)
			}
		}

		if r.ruleController != nil {
			rules := v1.Group("/rules")
			{
				rules.GET("", r.ruleController.List)
				rules.POST("", r.ruleController.Create)
				rules.POST("/reorder", r.ruleController.Reorder)
				rules.POST("/suggestions/accept", r.ruleController.AcceptSuggestion)
				rules.POST("/suggestions/dismiss", r.ruleController.DismissSuggestion)
				rules.GET("/:id", r.ruleController.Get)
				rules.PATCH("/:id", r.ruleController.Update)
				rules.DELETE("/:id", r.ruleController.Delete)
			}
		}

		if r.importController != nil {
			imports := v1.Group("/imports")
			{
				if r.uploadRateLimiter != nil {
					imports.POST("/upload", r.uploadRateLimiter.Middleware(), r.importController.Upload)
				} else {
					imports.POST("/upload", r.importController.Upload)
				}
				imports.GET("", r.importController.List)
				imports.GET("/:id", r.importController.Get)
			}
		}

		if r.analyticsController != nil {
			analytics := v1.Group("/analytics")
			{
				analytics.GET("/monthly", r.analyticsController.Monthly)
				analytics.GET("/trend", r.analyticsController.Trend)
				analytics.GET("/categories", r.analyticsController.Categories)
				analytics.GET("/accounts", r.analyticsController.Accounts)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
