// internal/models/ticket.go
package models

import (
	"time"

	"github.com/lib/pq"
)

// Ticket is a locally recorded purchase. A ticket exists only after
// the remote purchase service confirmed the sale; the ledger is a
// cache of confirmed remote truth, never a gate. Tickets are never
// deleted, only relisted or reassigned.
type Ticket struct {
	BaseModel
	TicketID        string         `json:"ticket_id" gorm:"size:16;not null;uniqueIndex:idx_tickets_event_ticket"`
	EventID         string         `json:"event_id" gorm:"size:16;not null;uniqueIndex:idx_tickets_event_ticket;index"`
	OfferID         string         `json:"offer_id" gorm:"size:64;not null;index"`
	Section         string         `json:"section" gorm:"size:64"`
	Row             *string        `json:"row" gorm:"size:16"`
	Type            TicketType     `json:"type" gorm:"type:varchar(20);not null"`
	Price           float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Currency        string         `json:"currency" gorm:"size:8;not null"`
	OwnerID         string         `json:"owner_id" gorm:"size:64;not null;index"`
	OwnerWallet     string         `json:"owner_wallet" gorm:"size:64;not null"`
	OriginalOwnerID string         `json:"original_owner_id" gorm:"size:64;not null"`
	PurchasedAt     time.Time      `json:"purchased_at"`
	ForSale         bool           `json:"for_sale" gorm:"default:false"`
	ResalePrice     *float64       `json:"resale_price" gorm:"type:decimal(10,2)"`
	DeliveryMethods pq.StringArray `json:"delivery_methods" gorm:"type:text[]"`
}

// List puts the ticket on the resale market at the given price.
func (t *Ticket) List(price float64) error {
	if price <= 0 {
		return ErrInvalidResalePrice
	}
	t.ForSale = true
	t.ResalePrice = &price
	return nil
}

// Unlist takes the ticket off the resale market. The owner keeps it.
func (t *Ticket) Unlist() {
	t.ForSale = false
	t.ResalePrice = nil
}

// TransferTo reassigns the ticket after a confirmed resale purchase.
// The original owner identity is preserved across any number of
// transfers.
func (t *Ticket) TransferTo(ownerID, ownerWallet string, pricePaid float64) {
	t.OwnerID = ownerID
	t.OwnerWallet = ownerWallet
	t.Price = pricePaid
	t.ForSale = false
	t.ResalePrice = nil
}
