// internal/services/availability.go
package services

import (
	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// AdjustedAvailability overlays the local purchase ledger on the raw
// inventory feed. The feed does not know about tickets sold through
// this API, so each offer's availability is reduced by the number of
// local tickets minted against it, floored at zero.
func AdjustedAvailability(offers []models.Offer, tickets []models.Ticket) []models.Offer {
	sold := make(map[string]int, len(tickets))
	for _, t := range tickets {
		sold[t.OfferID]++
	}

	adjusted := make([]models.Offer, len(offers))
	for i, offer := range offers {
		offer.Available -= sold[offer.OfferID]
		if offer.Available < 0 {
			offer.Available = 0
		}
		adjusted[i] = offer
	}
	return adjusted
}
