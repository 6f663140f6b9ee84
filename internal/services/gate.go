// internal/services/gate.go
package services

import (
	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// TradingLocked reports whether ticket operations are blocked for the
// caller on the given event. Admin accounts manage events but never
// trade, and once royalties have been distributed the event's trading
// window is closed for everyone.
func TradingLocked(role models.PartnerRole, event *models.Event) bool {
	if role == models.PartnerRoleAdmin {
		return true
	}
	return event.Distributed()
}
