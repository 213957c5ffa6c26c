package routes

import (
	"net/http"

	"barbertrack-backend/config"
	"barbertrack-backend/controllers"
	"barbertrack-backend/metrics"
	"barbertrack-backend/middleware"
	"barbertrack-backend/models"
	"barbertrack-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps carries everything the router hands to its controllers.
type Deps struct {
	Config  config.App
	Log     logrus.FieldLogger
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Reports *services.ReportService
	Store   controllers.Pinger
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if origins := d.Config.AllowedOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
		}))
	}

	r.Use(config.PerformanceLogger(d.Log))

	health := controllers.HealthController{Store: d.Store}
	r.GET("/health", health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authController := controllers.AuthController{
		Auth:         d.Auth,
		CookieMaxAge: int(d.Config.JWTTTL().Seconds()),
	}
	requireSession := middleware.AuthMiddleware(d.Auth)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)

		auth.Use(requireSession)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", authController.Me)
	}

	api := r.Group("/api")
	api.Use(requireSession)
	{
		profileController := controllers.ProfileController{Auth: d.Auth}
		api.GET("/profile", profileController.GetProfile)
		api.PUT("/profile", profileController.UpdateProfile)

		// Dashboard routes
		dashboardController := controllers.DashboardController{}
		api.GET("/dashboard", dashboardController.GetDashboard)
		api.POST("/dashboard/employees/:id/toggle", dashboardController.ToggleEmployee)

		// Service type routes
		serviceTypeController := controllers.ServiceTypeController{Catalog: d.Catalog}
		serviceTypes := api.Group("/service-types")
		{
			serviceTypes.GET("", serviceTypeController.GetServiceTypes)
			serviceTypes.POST("", adminOnly, serviceTypeController.CreateServiceType)
			serviceTypes.PUT("/:id", adminOnly, serviceTypeController.UpdateServiceType)
		}

		transactionController := controllers.TransactionController{Catalog: d.Catalog}
		api.POST("/transactions", middleware.RequireRole(models.RoleEmployee), transactionController.CreateTransaction)
		api.DELETE("/transactions/:id", adminOnly, dashboardController.DeleteTransaction)

		api.DELETE("/employees/:id", adminOnly, dashboardController.DeactivateEmployee)

		reportController := controllers.ReportController{Reports: d.Reports}
		api.GET("/reports/today", reportController.GetTodayReport)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return r
}
