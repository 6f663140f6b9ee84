// internal/handlers/events.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/actn-dev/solpass-partner-api/internal/services"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

type EventHandler struct {
	onboarding *services.OnboardingService
	tickets    *services.TicketService
	royalty    services.RoyaltyAPI
}

func NewEventHandler(onboarding *services.OnboardingService, tickets *services.TicketService, royalty services.RoyaltyAPI) *EventHandler {
	return &EventHandler{
		onboarding: onboarding,
		tickets:    tickets,
		royalty:    royalty,
	}
}

// POST /v1/events/onboard
func (h *EventHandler) OnboardEvent(c *gin.Context) {
	var req services.OnboardEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	event, err := h.onboarding.Onboard(c.Request.Context(), req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"event": event,
	})
}

// GET /v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.onboarding.List(c.Request.Context())
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"events": events,
		"total":  len(events),
	})
}

// GET /v1/events/:eventId
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.onboarding.Get(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	role, _ := utils.GetPartnerRoleFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"event":          event,
		"chain_ready":    event.ChainReady(),
		"trading_locked": services.TradingLocked(role, event),
	})
}

// GET /v1/events/:eventId/escrow
func (h *EventHandler) GetEscrow(c *gin.Context) {
	eventID := c.Param("eventId")
	if _, err := h.onboarding.Get(c.Request.Context(), eventID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	balance, err := h.royalty.Escrow(c.Request.Context(), eventID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"event_id":     eventID,
		"usdc_amount":  balance.USDCAmount,
		"usdc_decimal": balance.Decimal(),
	})
}

// GET /v1/events/:eventId/offers
func (h *EventHandler) GetOffers(c *gin.Context) {
	offers, err := h.tickets.Offers(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"offers": offers,
		"total":  len(offers),
	})
}
