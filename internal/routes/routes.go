package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transport-manager/internal/config"
	"transport-manager/internal/delivery/http/handler"
	"transport-manager/internal/infrastructure/database/postgres"
	"transport-manager/internal/logger"
	"transport-manager/internal/middleware"
	"transport-manager/internal/prediction"
	"transport-manager/internal/usecase/billing"
	"transport-manager/internal/usecase/client"
	"transport-manager/internal/usecase/expedition"
	"transport-manager/internal/usecase/fleet"
	"transport-manager/internal/usecase/incident"
	"transport-manager/internal/usecase/notification"
	"transport-manager/internal/usecase/pricing"
	"transport-manager/internal/usecase/tariff"
	"transport-manager/internal/usecase/tour"
)

// Services bundles the use-case layer so background jobs can share the
// instances wired for the HTTP server.
type Services struct {
	Expeditions *expedition.Service
	Tours       *tour.Service
	Billing     *billing.Service
}

func SetupRoutes(cfg *config.Config, db *postgres.DB) (*gin.Engine, *Services) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware order: request ID, logging, security headers, CORS, request
	// size limit, general rate limit.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	clientRepository := postgres.NewClientRepository(db)
	fleetRepository := postgres.NewFleetRepository(db)
	tariffRepository := postgres.NewTariffRepository(db)
	expeditionRepository := postgres.NewExpeditionRepository(db)
	tourRepository := postgres.NewTourRepository(db)
	billingRepository := postgres.NewBillingRepository(db)
	incidentRepository := postgres.NewIncidentRepository(db)
	notificationRepository := postgres.NewNotificationRepository(db)

	dispatcher := notification.NewDispatcher(notificationRepository, notification.LogMailer{})
	pricingService := pricing.NewService(tariffRepository)
	predictor := prediction.NewHeuristicPredictor(tariffRepository)

	clientService := client.NewService(clientRepository)
	fleetService := fleet.NewService(fleetRepository)
	tariffService := tariff.NewService(tariffRepository, pricingService)
	tourService := tour.NewService(tourRepository, expeditionRepository, fleetRepository)
	expeditionService := expedition.NewService(expeditionRepository, pricingService, predictor, dispatcher, tourService)
	billingService := billing.NewService(billingRepository, expeditionRepository, clientRepository, pricingService, dispatcher)
	incidentService := incident.NewService(incidentRepository, expeditionService, dispatcher)
	notificationService := notification.NewService(notificationRepository)

	clientHandler := handler.NewClientHandler(clientService)
	fleetHandler := handler.NewFleetHandler(fleetService)
	tariffHandler := handler.NewTariffHandler(tariffService)
	expeditionHandler := handler.NewExpeditionHandler(expeditionService)
	tourHandler := handler.NewTourHandler(tourService)
	billingHandler := handler.NewBillingHandler(billingService)
	incidentHandler := handler.NewIncidentHandler(incidentService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			clientHandler.RegisterRoutes(protected)
			fleetHandler.RegisterRoutes(protected)
			tariffHandler.RegisterRoutes(protected)
			expeditionHandler.RegisterRoutes(protected)
			tourHandler.RegisterRoutes(protected)
			billingHandler.RegisterRoutes(protected)
			incidentHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			// Agent routes (admins included)
			agent := protected.Group("")
			agent.Use(middleware.RoleMiddleware("admin", "agent"))
			{
				clientHandler.RegisterAgentRoutes(agent)
				expeditionHandler.RegisterAgentRoutes(agent)
				tourHandler.RegisterAgentRoutes(agent)
				billingHandler.RegisterAgentRoutes(agent)
				incidentHandler.RegisterAgentRoutes(agent)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				fleetHandler.RegisterAdminRoutes(admin)
				tariffHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")

	return router, &Services{
		Expeditions: expeditionService,
		Tours:       tourService,
		Billing:     billingService,
	}
}
