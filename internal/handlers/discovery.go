// internal/handlers/discovery.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

type DiscoveryHandler struct {
	discovery *clients.DiscoveryClient
}

func NewDiscoveryHandler(discovery *clients.DiscoveryClient) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// GET /v1/discovery/events
func (h *DiscoveryHandler) SearchEvents(c *gin.Context) {
	keyword := c.Query("keyword")
	size := 0
	if sizeStr := c.Query("size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil || parsed < 1 || parsed > 200 {
			utils.BadRequestResponse(c, "Invalid size parameter", nil)
			return
		}
		size = parsed
	}

	result, err := h.discovery.SearchEvents(c.Request.Context(), keyword, size)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"events": result.Events,
		"total":  result.Total,
	})
}

// GET /v1/discovery/events/:id
func (h *DiscoveryHandler) GetEvent(c *gin.Context) {
	event, err := h.discovery.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"event": event,
	})
}
