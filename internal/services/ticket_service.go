// internal/services/ticket_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/config"
	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

// TicketService owns the local purchase ledger. Every sale and resale
// is first confirmed by the royalty platform, then recorded; a remote
// failure leaves the ledger exactly as it was.
type TicketService struct {
	royalty   RoyaltyAPI
	inventory clients.OfferInventory
	events    storage.EventStore
	tickets   storage.TicketStore
	cfg       config.SimulatorConfig
	logger    *logrus.Logger
}

func NewTicketService(royalty RoyaltyAPI, inventory clients.OfferInventory, events storage.EventStore, tickets storage.TicketStore, cfg config.SimulatorConfig, logger *logrus.Logger) *TicketService {
	return &TicketService{
		royalty:   royalty,
		inventory: inventory,
		events:    events,
		tickets:   tickets,
		cfg:       cfg,
		logger:    logger,
	}
}

type PurchaseTicketRequest struct {
	OfferID     string `json:"offer_id" validate:"required"`
	BuyerID     string `json:"buyer_id" validate:"required,min=1,max=64"`
	BuyerWallet string `json:"buyer_wallet" validate:"required,wallet_address"`
}

type ListTicketRequest struct {
	OwnerID string  `json:"owner_id" validate:"required,min=1,max=64"`
	Price   float64 `json:"price" validate:"required,gt=0"`
}

type UnlistTicketRequest struct {
	OwnerID string `json:"owner_id" validate:"required,min=1,max=64"`
}

type ResalePurchaseRequest struct {
	BuyerID     string `json:"buyer_id" validate:"required,min=1,max=64"`
	BuyerWallet string `json:"buyer_wallet" validate:"required,wallet_address"`
}

// Offers returns the event's inventory with availability adjusted for
// tickets already sold through this API.
func (s *TicketService) Offers(ctx context.Context, eventID string) ([]models.Offer, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	offers, err := s.inventory.Offers(ctx, event.EventID, s.cfg.MinOfferPrice, s.cfg.MaxOfferPrice, s.cfg.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	tickets, err := s.tickets.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return AdjustedAvailability(offers, tickets), nil
}

// PurchasePrimary buys one ticket from an offer. The platform records
// the sale and routes the royalty cut into escrow before the local
// ledger is touched.
func (s *TicketService) PurchasePrimary(ctx context.Context, eventID string, role models.PartnerRole, req PurchaseTicketRequest) (*models.Ticket, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if TradingLocked(role, event) {
		return nil, models.ErrTradingLocked
	}
	if !event.ChainReady() {
		return nil, models.ErrEventNotActive
	}

	offers, err := s.inventory.Offers(ctx, event.EventID, s.cfg.MinOfferPrice, s.cfg.MaxOfferPrice, s.cfg.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	var offer *models.Offer
	for i := range offers {
		if offers[i].OfferID == req.OfferID {
			offer = &offers[i]
			break
		}
	}
	if offer == nil {
		return nil, models.ErrOfferNotFound
	}

	tickets, err := s.tickets.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if remaining := AdjustedAvailability([]models.Offer{*offer}, tickets); remaining[0].Available < 1 {
		return nil, models.ErrOfferSoldOut
	}

	now := time.Now().UTC()
	ticketID := utils.NewTicketID(event.EventID, now)
	for hasTicketID(tickets, ticketID) {
		now = now.Add(time.Millisecond)
		ticketID = utils.NewTicketID(event.EventID, now)
	}

	err = s.royalty.PurchaseTicket(ctx, event.EventID, clients.PurchaseRequest{
		TicketID:      ticketID,
		BuyerWallet:   req.BuyerWallet,
		SellerWallet:  s.cfg.AdminWallet,
		NewPrice:      offer.Price,
		OriginalPrice: offer.Price,
		BuyerID:       req.BuyerID,
		SellerID:      s.cfg.AdminUserID,
	})
	if err != nil {
		return nil, err
	}

	ticket := models.Ticket{
		TicketID:        ticketID,
		EventID:         event.EventID,
		OfferID:         offer.OfferID,
		Section:         offer.Section,
		Row:             offer.Row,
		Type:            offer.Type,
		Price:           offer.Price,
		Currency:        offer.Currency,
		OwnerID:         req.BuyerID,
		OwnerWallet:     req.BuyerWallet,
		OriginalOwnerID: req.BuyerID,
		PurchasedAt:     now,
		DeliveryMethods: offer.DeliveryMethods,
	}

	tickets = append(tickets, ticket)
	if err := s.tickets.Replace(ctx, eventID, tickets); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":  eventID,
		"ticket_id": ticketID,
		"offer_id":  offer.OfferID,
		"buyer":     req.BuyerID,
	}).Info("Primary ticket sale recorded")

	return &ticket, nil
}

// ListForResale puts an owned ticket on the resale market.
func (s *TicketService) ListForResale(ctx context.Context, ticketID string, role models.PartnerRole, req ListTicketRequest) (*models.Ticket, error) {
	event, tickets, idx, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if TradingLocked(role, event) {
		return nil, models.ErrTradingLocked
	}
	if tickets[idx].OwnerID != req.OwnerID {
		return nil, models.ErrTicketNotFound
	}

	if err := tickets[idx].List(req.Price); err != nil {
		return nil, err
	}
	if err := s.tickets.Replace(ctx, event.EventID, tickets); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"price":     req.Price,
	}).Info("Ticket listed for resale")

	ticket := tickets[idx]
	return &ticket, nil
}

// CancelResale takes the ticket off the resale market.
func (s *TicketService) CancelResale(ctx context.Context, ticketID string, role models.PartnerRole, req UnlistTicketRequest) (*models.Ticket, error) {
	event, tickets, idx, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if TradingLocked(role, event) {
		return nil, models.ErrTradingLocked
	}
	if tickets[idx].OwnerID != req.OwnerID {
		return nil, models.ErrTicketNotFound
	}

	tickets[idx].Unlist()
	if err := s.tickets.Replace(ctx, event.EventID, tickets); err != nil {
		return nil, err
	}

	ticket := tickets[idx]
	return &ticket, nil
}

// PurchaseResale transfers a listed ticket to a new owner at the
// listed price. The royalty platform takes its cut of the resale
// before the ledger records the transfer.
func (s *TicketService) PurchaseResale(ctx context.Context, ticketID string, role models.PartnerRole, req ResalePurchaseRequest) (*models.Ticket, error) {
	event, tickets, idx, err := s.findTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket := &tickets[idx]
	if !ticket.ForSale || ticket.ResalePrice == nil {
		return nil, models.ErrNotListedForResale
	}

	// The event may have distributed since the ticket was listed, so
	// the gate is checked against the current mirror just before the
	// platform call.
	if TradingLocked(role, event) {
		return nil, models.ErrTradingLocked
	}

	resalePrice := *ticket.ResalePrice
	err = s.royalty.PurchaseTicket(ctx, event.EventID, clients.PurchaseRequest{
		TicketID:      ticket.TicketID,
		BuyerWallet:   req.BuyerWallet,
		SellerWallet:  ticket.OwnerWallet,
		NewPrice:      resalePrice,
		OriginalPrice: ticket.Price,
		BuyerID:       req.BuyerID,
		SellerID:      ticket.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	ticket.TransferTo(req.BuyerID, req.BuyerWallet, resalePrice)
	if err := s.tickets.Replace(ctx, event.EventID, tickets); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"buyer":     req.BuyerID,
		"price":     resalePrice,
	}).Info("Resale purchase recorded")

	out := *ticket
	return &out, nil
}

// Tickets returns the event's ledger, optionally filtered to one
// owner.
func (s *TicketService) Tickets(ctx context.Context, eventID, ownerID string) ([]models.Ticket, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ownerID == "" {
		return tickets, nil
	}

	owned := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

// ResaleMarket returns the tickets currently listed for resale on an
// event. Listings owned by viewerID are excluded, so a seller never
// sees their own ticket as purchasable.
func (s *TicketService) ResaleMarket(ctx context.Context, eventID, viewerID string) ([]models.Ticket, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	listed := make([]models.Ticket, 0)
	for _, t := range tickets {
		if t.ForSale && t.OwnerID != viewerID {
			listed = append(listed, t)
		}
	}
	return listed, nil
}

// findTicket locates a ticket by id across all onboarded events and
// returns the event, the full ledger slice and the ticket's index.
func (s *TicketService) findTicket(ctx context.Context, ticketID string) (*models.Event, []models.Ticket, int, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	for i := range events {
		tickets, err := s.tickets.Get(ctx, events[i].EventID)
		if err != nil {
			return nil, nil, 0, err
		}
		for idx := range tickets {
			if tickets[idx].TicketID == ticketID {
				return &events[i], tickets, idx, nil
			}
		}
	}
	return nil, nil, 0, models.ErrTicketNotFound
}

func hasTicketID(tickets []models.Ticket, ticketID string) bool {
	for _, t := range tickets {
		if t.TicketID == ticketID {
			return true
		}
	}
	return false
}
