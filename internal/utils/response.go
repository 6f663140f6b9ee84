// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func BadRequestResponse(c *gin.Context, message string, details interface{}) {
	if message == "" {
		message = "Invalid request"
	}
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func NotFoundResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}

func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", errs)
}

// DomainErrorResponse maps the domain error taxonomy onto stable HTTP
// error codes that integrators can switch on.
func DomainErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrEventNotFound):
		ErrorResponse(c, http.StatusNotFound, "EVENT_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, models.ErrTicketNotFound):
		ErrorResponse(c, http.StatusNotFound, "TICKET_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, models.ErrOfferNotFound):
		ErrorResponse(c, http.StatusNotFound, "OFFER_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, models.ErrOfferSoldOut):
		ErrorResponse(c, http.StatusConflict, "OFFER_SOLD_OUT", err.Error(), nil)
	case errors.Is(err, models.ErrUnknownParty):
		ErrorResponse(c, http.StatusNotFound, "UNKNOWN_PARTY", err.Error(), nil)
	case errors.Is(err, models.ErrEventNotActive):
		ErrorResponse(c, http.StatusConflict, "EVENT_NOT_ACTIVE", err.Error(), nil)
	case errors.Is(err, models.ErrThresholdNotMet):
		ErrorResponse(c, http.StatusConflict, "THRESHOLD_NOT_MET", err.Error(), nil)
	case errors.Is(err, models.ErrAlreadyDistributed):
		ErrorResponse(c, http.StatusConflict, "ALREADY_DISTRIBUTED", err.Error(), nil)
	case errors.Is(err, models.ErrNotListedForResale):
		ErrorResponse(c, http.StatusConflict, "NOT_LISTED", err.Error(), nil)
	case errors.Is(err, models.ErrAlreadyExists):
		ErrorResponse(c, http.StatusConflict, "ALREADY_EXISTS", err.Error(), nil)
	case errors.Is(err, models.ErrTradingLocked):
		ErrorResponse(c, http.StatusForbidden, "TRADING_LOCKED", err.Error(), nil)
	case errors.Is(err, models.ErrInvalidResalePrice), errors.Is(err, models.ErrInvalidDistribution):
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, models.ErrAPIKeyInvalid):
		ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error(), nil)
	case errors.Is(err, models.ErrRemoteCall):
		ErrorResponse(c, http.StatusBadGateway, "REMOTE_CALL_FAILED", err.Error(), nil)
	default:
		InternalErrorResponse(c, err.Error())
	}
}

func GetPartnerIDFromContext(c *gin.Context) (string, bool) {
	if partnerID, exists := c.Get("partner_id"); exists {
		if idStr, ok := partnerID.(string); ok {
			return idStr, true
		}
	}
	return "", false
}

func GetPartnerRoleFromContext(c *gin.Context) (models.PartnerRole, bool) {
	if role, exists := c.Get("partner_role"); exists {
		if roleStr, ok := role.(models.PartnerRole); ok {
			return roleStr, true
		}
	}
	return "", false
}
