// internal/handlers/approvals.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/actn-dev/solpass-partner-api/internal/services"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

type ApprovalHandler struct {
	approvals *services.ApprovalService
}

func NewApprovalHandler(approvals *services.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

// POST /v1/events/:eventId/approvals
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var req services.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	view, err := h.approvals.Approve(c.Request.Context(), c.Param("eventId"), req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"approval_status": view,
	})
}

// GET /v1/events/:eventId/approvals
func (h *ApprovalHandler) Status(c *gin.Context) {
	view, err := h.approvals.Status(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"approval_status": view,
	})
}

// POST /v1/events/:eventId/distribute
func (h *ApprovalHandler) Distribute(c *gin.Context) {
	view, err := h.approvals.Distribute(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"approval_status": view,
		"payouts":         view.Payouts,
	})
}
