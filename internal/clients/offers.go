// internal/clients/offers.go
package clients

import (
	"context"
	"fmt"
	"math"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// OfferInventory is the external inventory source contract: given an
// event and a price band it returns the sellable offers for that
// event. The feed is deterministic per event identifier.
type OfferInventory interface {
	Offers(ctx context.Context, eventID string, minPrice, maxPrice float64, currency string) ([]models.Offer, error)
}

// MockOfferInventory synthesizes seat sections from a seed derived
// from the event identifier, shaped after the partner offers feed.
// The generator's arithmetic is a fixed contract: the same event id
// always produces the same offer list, so it can stand in for the
// live feed during integration testing.
type MockOfferInventory struct{}

func NewMockOfferInventory() *MockOfferInventory {
	return &MockOfferInventory{}
}

type sectionTemplate struct {
	section      string
	row          string
	ticketType   models.TicketType
	description  string
	priceFactor  float64
	capacityBase int
}

var sectionTemplates = []sectionTemplate{
	// Floor / GA
	{"Floor A", "", models.TicketTypeStandard, "General Admission – Floor, unreserved standing area closest to stage", 1.0, 300},
	{"Floor B", "", models.TicketTypeStandard, "General Admission – Floor, secondary standing zone", 0.95, 250},
	// Lower bowl
	{"Section 101", "A–M", models.TicketTypeStandard, "Lower Bowl – best unobstructed sightlines, centre-stage", 0.85, 120},
	{"Section 102", "A–J", models.TicketTypeStandard, "Lower Bowl – left side, excellent angle", 0.80, 100},
	{"Section 103", "A–J", models.TicketTypeStandard, "Lower Bowl – right side, excellent angle", 0.80, 100},
	{"Section 104", "A–H", models.TicketTypeStandard, "Lower Bowl – side section", 0.70, 80},
	// Upper bowl
	{"Section 201", "A–F", models.TicketTypeStandard, "Upper Bowl – centre view, affordable option", 0.55, 90},
	{"Section 202", "A–E", models.TicketTypeStandard, "Upper Bowl – left side", 0.50, 70},
	{"Section 203", "A–E", models.TicketTypeStandard, "Upper Bowl – right side", 0.50, 70},
	// VIP
	{"VIP Floor", "VIP1–VIP3", models.TicketTypeVIP, "VIP Package – premium floor access, meet-and-greet eligibility, lounge entry", 2.8, 40},
	{"VIP Lounge Box", "Box A", models.TicketTypeVIP, "VIP Private Box – dedicated host, premium seating, complimentary drinks", 3.5, 16},
	// Accessible
	{"Accessible Sec. 101", "ADA1", models.TicketTypeAccessible, "ADA-compliant seating – companion seats included, accessible entry", 0.85, 20},
	{"Accessible Floor", "ADA-F", models.TicketTypeAccessible, "ADA viewing platform – floor level, rail support", 1.0, 12},
	// Resale
	{"Resale – Floor A", "", models.TicketTypeResale, "Fan resale listing – Floor GA, verified by the marketplace", 1.35, 15},
	{"Resale – Sec. 101", "C", models.TicketTypeResale, "Fan resale listing – Lower Bowl, Row C centre", 1.2, 8},
	{"Resale – VIP Floor", "VIP2", models.TicketTypeResale, "Fan resale – VIP Floor access (limited)", 3.1, 4},
}

func (m *MockOfferInventory) Offers(ctx context.Context, eventID string, minPrice, maxPrice float64, currency string) ([]models.Offer, error) {
	rand := seededRand(hashString(eventID))
	spread := maxPrice - minPrice
	if spread == 0 {
		spread = minPrice * 0.4
	}

	offers := make([]models.Offer, 0, len(sectionTemplates))
	for idx, tmpl := range sectionTemplates {
		r := rand()
		basePrice := minPrice + spread*(tmpl.priceFactor-0.5)
		jitter := (rand() - 0.5) * spread * 0.08
		price := round2(math.Max(minPrice*0.4, basePrice+jitter))

		totalCapacity := int(float64(tmpl.capacityBase) * (0.8 + rand()*0.4))
		soldFraction := 0.2 + r*0.75 // 20–95% sold
		available := int(float64(totalCapacity) * (1 - soldFraction))
		if available < 1 {
			available = 1
		}

		deliveryMethods := []string{"MOBILE_TRANSFER"}
		if tmpl.ticketType != models.TicketTypeResale {
			deliveryMethods = append(deliveryMethods, "PRINT_AT_HOME")
		}
		if tmpl.ticketType == models.TicketTypeVIP {
			deliveryMethods = append(deliveryMethods, "WILL_CALL")
		}

		var restrictions *string
		if tmpl.ticketType == models.TicketTypeAccessible {
			note := "Valid disability documentation may be required"
			restrictions = &note
		}

		var row *string
		if tmpl.row != "" {
			r := tmpl.row
			row = &r
		}

		offers = append(offers, models.Offer{
			OfferID:         fmt.Sprintf("%s-offer-%d", eventID, idx+1),
			Section:         tmpl.section,
			Row:             row,
			Type:            tmpl.ticketType,
			Description:     tmpl.description,
			Price:           price,
			Currency:        currency,
			Available:       available,
			TotalCapacity:   totalCapacity,
			DeliveryMethods: deliveryMethods,
			Restrictions:    restrictions,
		})
	}

	return offers, nil
}

// seededRand is a 32-bit linear congruential generator; the constants
// are part of the feed's deterministic contract.
func seededRand(seed uint32) func() float64 {
	s := seed
	return func() float64 {
		s = s*1664525 + 1013904223
		return float64(s) / 4294967296
	}
}

func hashString(str string) uint32 {
	var h int32
	for _, c := range []byte(str) {
		h = 31*h + int32(c)
	}
	if h < 0 {
		h = -h
	}
	return uint32(h)
}

func round2(n float64) float64 {
	return math.Round(n*100) / 100
}
