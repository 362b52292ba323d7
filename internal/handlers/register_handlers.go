package handlers

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/retailops/backoffice/cmd/docs"
	"github.com/retailops/backoffice/internal/core/services"
	portssvc "github.com/retailops/backoffice/internal/core/ports/services"
	"github.com/retailops/backoffice/internal/middleware"
	"github.com/retailops/backoffice/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	container *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	r.Use(cors.Default())

	// Setup API v1 routes, passing service interfaces
	setupAPIV1Routes(r, cfg, container)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	container *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", rateLimitMiddleware(cfg))

	registerProductRoutes(v1, container.Product)
	registerCustomerRoutes(v1, container.Customer)
	registerSaleRoutes(v1, container.Sale)
	registerStatementRoutes(v1, container.Statement)
	registerNumberingRoutes(v1, container.Numbering, cfg.CompanyID, services.SystemClock())
}

// rateLimitMiddleware builds the per-IP limiter from the configured rate.
func rateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		slog.Warn("Invalid RATE_LIMIT value, falling back to 300-M", slog.String("value", cfg.RateLimit))
		rate, _ = limiter.NewRateFromFormatted("300-M")
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
