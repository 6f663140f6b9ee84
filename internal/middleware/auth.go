// internal/middleware/auth.go
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/services"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// APIKeyRequired authenticates the caller by API key and puts the
// resolved partner identity into the request context.
func APIKeyRequired(partners *services.PartnerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := bearerToken(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		partner, _, err := partners.VerifyKey(c.Request.Context(), key)
		if err != nil {
			utils.UnauthorizedResponse(c, "Invalid API key")
			c.Abort()
			return
		}

		c.Set("partner_id", partner.ID.String())
		c.Set("partner_role", partner.Role)
		c.Next()
	}
}

// AdminRequired gates event management endpoints to admin accounts.
// It runs after APIKeyRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := utils.GetPartnerRoleFromContext(c)
		if !exists || role != models.PartnerRoleAdmin {
			utils.ForbiddenResponse(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// BootstrapRequired protects partner account creation with the shared
// bootstrap token, so the first key can be issued before any partner
// exists.
func BootstrapRequired(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented, ok := bearerToken(c)
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, utils.APIResponse{
				Success: false,
				Error:   &utils.APIError{Code: "UNAUTHORIZED", Message: "Invalid bootstrap token"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
