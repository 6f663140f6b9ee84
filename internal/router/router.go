// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/config"
	"github.com/actn-dev/solpass-partner-api/internal/handlers"
	"github.com/actn-dev/solpass-partner-api/internal/middleware"
	"github.com/actn-dev/solpass-partner-api/internal/services"
	"github.com/actn-dev/solpass-partner-api/internal/storage"
	"github.com/actn-dev/solpass-partner-api/internal/storage/memory"
	"github.com/actn-dev/solpass-partner-api/internal/storage/postgres"
)

// Initialize wires storage, clients, services and handlers into the
// HTTP engine. db is nil in session mode; the in-memory stores back
// all state and nothing survives a restart.
func Initialize(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	// Storage
	var (
		eventStore   storage.EventStore
		ticketStore  storage.TicketStore
		partnerStore storage.PartnerStore
	)
	if db != nil {
		eventStore = postgres.NewEventStore(db)
		ticketStore = postgres.NewTicketStore(db)
		partnerStore = postgres.NewPartnerStore(db)
	} else {
		eventStore = memory.NewEventStore()
		ticketStore = memory.NewTicketStore()
		partnerStore = memory.NewPartnerStore()
	}

	// Clients
	var cache clients.Cache
	if cfg.Redis.Enabled {
		cache = clients.NewRedisCache(cfg.Redis)
	}
	royaltyClient := clients.NewRoyaltyClient(cfg.Royalty)
	discoveryClient := clients.NewDiscoveryClient(cfg.Discovery, cache)
	inventory := clients.NewMockOfferInventory()

	// Services
	onboardingService := services.NewOnboardingService(royaltyClient, eventStore, cfg.Simulator, logger)
	approvalService := services.NewApprovalService(royaltyClient, eventStore, logger)
	ticketService := services.NewTicketService(royaltyClient, inventory, eventStore, ticketStore, cfg.Simulator, logger)
	partnerService := services.NewPartnerService(partnerStore, logger)

	// Handlers
	eventHandler := handlers.NewEventHandler(onboardingService, ticketService, royaltyClient)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryClient)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Partner account routes
		partners := v1.Group("/partners")
		{
			partners.POST("", middleware.BootstrapRateLimit(), middleware.BootstrapRequired(cfg.Simulator.BootstrapToken), partnerHandler.CreatePartner)
			partners.DELETE("/keys/:id", middleware.APIKeyRequired(partnerService), middleware.AdminRequired(), partnerHandler.RevokeKey)
		}

		// Event discovery routes
		discovery := v1.Group("/discovery")
		discovery.Use(middleware.APIKeyRequired(partnerService))
		discovery.Use(middleware.DiscoveryRateLimit())
		{
			discovery.GET("/events", discoveryHandler.SearchEvents)
			discovery.GET("/events/:id", discoveryHandler.GetEvent)
		}

		// Event routes
		events := v1.Group("/events")
		events.Use(middleware.APIKeyRequired(partnerService))
		{
			events.POST("/onboard", middleware.AdminRequired(), eventHandler.OnboardEvent)
			events.GET("", eventHandler.ListEvents)
			events.GET("/:eventId", eventHandler.GetEvent)
			events.GET("/:eventId/escrow", eventHandler.GetEscrow)
			events.GET("/:eventId/offers", eventHandler.GetOffers)

			events.POST("/:eventId/approvals", approvalHandler.Approve)
			events.GET("/:eventId/approvals", approvalHandler.Status)
			events.POST("/:eventId/distribute", middleware.AdminRequired(), approvalHandler.Distribute)

			events.POST("/:eventId/tickets", ticketHandler.PurchaseTicket)
			events.GET("/:eventId/tickets", ticketHandler.GetTickets)
			events.GET("/:eventId/resales", ticketHandler.GetResaleMarket)
		}

		// Ticket routes
		tickets := v1.Group("/tickets")
		tickets.Use(middleware.APIKeyRequired(partnerService))
		{
			tickets.POST("/:ticketId/list", ticketHandler.ListForResale)
			tickets.POST("/:ticketId/unlist", ticketHandler.CancelResale)
			tickets.POST("/:ticketId/purchase", ticketHandler.PurchaseResale)
		}
	}

	return r
}
