// internal/handlers/tickets.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/actn-dev/solpass-partner-api/internal/services"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

type TicketHandler struct {
	tickets *services.TicketService
}

func NewTicketHandler(tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// POST /v1/events/:eventId/tickets
func (h *TicketHandler) PurchaseTicket(c *gin.Context) {
	role, ok := utils.GetPartnerRoleFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ticket, err := h.tickets.PurchasePrimary(c.Request.Context(), c.Param("eventId"), role, req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"ticket": ticket,
	})
}

// GET /v1/events/:eventId/tickets
func (h *TicketHandler) GetTickets(c *gin.Context) {
	tickets, err := h.tickets.Tickets(c.Request.Context(), c.Param("eventId"), c.Query("owner_id"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tickets": tickets,
		"total":   len(tickets),
	})
}

// GET /v1/events/:eventId/resales?viewer_id=
func (h *TicketHandler) GetResaleMarket(c *gin.Context) {
	tickets, err := h.tickets.ResaleMarket(c.Request.Context(), c.Param("eventId"), c.Query("viewer_id"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listings": tickets,
		"total":    len(tickets),
	})
}

// POST /v1/tickets/:ticketId/list
func (h *TicketHandler) ListForResale(c *gin.Context) {
	role, ok := utils.GetPartnerRoleFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ListTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ticket, err := h.tickets.ListForResale(c.Request.Context(), c.Param("ticketId"), role, req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"ticket": ticket,
	})
}

// POST /v1/tickets/:ticketId/unlist
func (h *TicketHandler) CancelResale(c *gin.Context) {
	role, ok := utils.GetPartnerRoleFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UnlistTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ticket, err := h.tickets.CancelResale(c.Request.Context(), c.Param("ticketId"), role, req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"ticket": ticket,
	})
}

// POST /v1/tickets/:ticketId/purchase
func (h *TicketHandler) PurchaseResale(c *gin.Context) {
	role, ok := utils.GetPartnerRoleFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ResalePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ticket, err := h.tickets.PurchaseResale(c.Request.Context(), c.Param("ticketId"), role, req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"ticket": ticket,
	})
}
