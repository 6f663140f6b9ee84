// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// AuditLogMiddleware writes the request log and records an audit row
// for every mutating request. When no database is configured (session
// mode) the audit trail goes to the structured log only.
func AuditLogMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		mutation := c.Request.Method != "GET"

		var requestBody []byte
		if mutation && c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		partnerID, _ := c.Get("partner_id")

		if mutation {
			var partnerUUID *uuid.UUID
			if partnerID != nil {
				if id, ok := partnerID.(string); ok {
					if parsed, err := uuid.Parse(id); err == nil {
						partnerUUID = &parsed
					}
				}
			}

			var requestData map[string]interface{}
			if len(requestBody) > 0 {
				json.Unmarshal(requestBody, &requestData)
			}
			// Issued API keys must never reach the audit trail.
			delete(requestData, "api_key")
			delete(requestData, "credential")

			auditLog := &models.AuditLog{
				PartnerID:    partnerUUID,
				Action:       c.Request.Method + " " + c.Request.URL.Path,
				ResourceType: extractResourceType(c.Request.URL.Path),
				ResourceID:   extractResourceID(c),
				IPAddress:    c.ClientIP(),
				UserAgent:    c.Request.UserAgent(),
				NewValues:    models.JSONB(requestData),
			}

			if db != nil {
				go func() {
					if err := db.Create(auditLog).Error; err != nil {
						logrus.WithError(err).Error("Failed to create audit log")
					}
				}()
			}
		}

		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   duration.Milliseconds(),
			"ip":         c.ClientIP(),
			"partner_id": partnerID,
		}).Info("Request processed")
	}
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "v1" {
		return parts[1]
	}
	if len(parts) >= 1 {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(c *gin.Context) string {
	for _, name := range []string{"eventId", "ticketId", "id"} {
		if v := c.Param(name); v != "" {
			return v
		}
	}
	return ""
}
