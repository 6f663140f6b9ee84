// internal/handlers/partners.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/actn-dev/solpass-partner-api/internal/services"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

type PartnerHandler struct {
	partners *services.PartnerService
}

func NewPartnerHandler(partners *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// POST /v1/partners
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req services.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.partners.CreatePartner(c.Request.Context(), req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"partner": result.Partner,
		"key_id":  result.KeyID,
		// Shown once; only the hash is stored.
		"api_key": result.APIKey,
	})
}

// DELETE /v1/partners/keys/:id
func (h *PartnerHandler) RevokeKey(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid key ID", nil)
		return
	}

	if err := h.partners.RevokeKey(c.Request.Context(), keyID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "API key revoked",
	})
}
