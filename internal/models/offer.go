// internal/models/offer.go
package models

// Offer is one sellable section/price band as reported by the remote
// inventory feed. Offers are immutable and never persisted; the
// remotely reported Available count is adjusted against the local
// ledger on every read.
type Offer struct {
	OfferID         string     `json:"offerId"`
	Section         string     `json:"section"`
	Row             *string    `json:"row"`
	Type            TicketType `json:"type"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	Currency        string     `json:"currency"`
	Available       int        `json:"available"`
	TotalCapacity   int        `json:"totalCapacity"`
	DeliveryMethods []string   `json:"deliveryMethods"`
	Restrictions    *string    `json:"restrictions"`
}
