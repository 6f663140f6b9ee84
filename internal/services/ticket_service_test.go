// internal/services/ticket_service_test.go
package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage/memory"
)

func newTicketService(royalty RoyaltyAPI) (*TicketService, *memory.EventStore, *memory.TicketStore) {
	events := memory.NewEventStore()
	tickets := memory.NewTicketStore()
	svc := NewTicketService(royalty, clients.NewMockOfferInventory(), events, tickets, testSimConfig(), testLogger())
	return svc, events, tickets
}

func firstOffer(t *testing.T, svc *TicketService, eventID string) models.Offer {
	t.Helper()
	offers, err := svc.Offers(context.Background(), eventID)
	require.NoError(t, err)
	require.NotEmpty(t, offers)
	return offers[0]
}

func TestPurchasePrimary(t *testing.T) {
	royalty := &stubRoyaltyAPI{}
	svc, events, _ := newTicketService(royalty)
	seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")

	ticket, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
		OfferID:     offer.OfferID,
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(ticket.TicketID), 16)
	assert.Equal(t, offer.Price, ticket.Price)
	assert.Equal(t, "fan-1", ticket.OwnerID)
	assert.Equal(t, "fan-1", ticket.OriginalOwnerID)
	assert.False(t, ticket.ForSale)

	// The platform saw the sale with the shop as seller
	require.Len(t, royalty.purchaseCalls, 1)
	call := royalty.purchaseCalls[0]
	assert.Equal(t, ticket.TicketID, call.TicketID)
	assert.Equal(t, "shop-admin", call.SellerID)
	assert.Equal(t, offer.Price, call.NewPrice)
	assert.Equal(t, offer.Price, call.OriginalPrice)

	// The ledger reduces reported availability
	adjusted := firstOffer(t, svc, "G5vYZb2n3xAta")
	assert.Equal(t, offer.Available-1, adjusted.Available)
}

func TestPurchasePrimaryGates(t *testing.T) {
	svc, events, _ := newTicketService(&stubRoyaltyAPI{})
	event := seedEvent(events, 2)
	ctx := context.Background()

	req := PurchaseTicketRequest{
		OfferID:     "G5vYZb2n3xAta-offer-1",
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	}

	// Admin accounts manage events, they do not trade
	_, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRoleAdmin, req)
	assert.ErrorIs(t, err, models.ErrTradingLocked)

	// Distributed events are closed for everyone
	event.State = models.EventStateDistributed
	require.NoError(t, events.Put(ctx, event))
	_, err = svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, req)
	assert.ErrorIs(t, err, models.ErrTradingLocked)

	_, err = svc.PurchasePrimary(ctx, "missing", models.PartnerRolePartner, req)
	assert.ErrorIs(t, err, models.ErrEventNotFound)

	event.State = models.EventStateActive
	require.NoError(t, events.Put(ctx, event))
	req.OfferID = "nope"
	_, err = svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, req)
	assert.ErrorIs(t, err, models.ErrOfferNotFound)
}

func TestPurchasePrimarySoldOut(t *testing.T) {
	svc, events, tickets := newTicketService(&stubRoyaltyAPI{})
	seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")

	// Fill the ledger up to the offer's full availability
	minted := make([]models.Ticket, 0, offer.Available)
	for i := 0; i < offer.Available; i++ {
		minted = append(minted, models.Ticket{
			TicketID: fmt.Sprintf("filler-%d", i),
			EventID:  "G5vYZb2n3xAta",
			OfferID:  offer.OfferID,
			OwnerID:  "someone",
		})
	}
	require.NoError(t, tickets.Replace(ctx, "G5vYZb2n3xAta", minted))

	adjusted := firstOffer(t, svc, "G5vYZb2n3xAta")
	assert.Equal(t, 0, adjusted.Available)

	_, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
		OfferID:     offer.OfferID,
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	})
	assert.ErrorIs(t, err, models.ErrOfferSoldOut)
}

func TestPurchasePrimaryRemoteFailureLeavesLedgerUntouched(t *testing.T) {
	royalty := &stubRoyaltyAPI{
		purchaseTicket: func(eventID string, req clients.PurchaseRequest) error {
			return &models.RemoteError{Service: "royalty", StatusCode: 502}
		},
	}
	svc, events, tickets := newTicketService(royalty)
	seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")
	_, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
		OfferID:     offer.OfferID,
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	})
	assert.ErrorIs(t, err, models.ErrRemoteCall)

	ledger, err := tickets.Get(ctx, "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestResaleRoundTrip(t *testing.T) {
	royalty := &stubRoyaltyAPI{}
	svc, events, _ := newTicketService(royalty)
	seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")
	ticket, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
		OfferID:     offer.OfferID,
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	})
	require.NoError(t, err)

	// Only the owner can list
	_, err = svc.ListForResale(ctx, ticket.TicketID, models.PartnerRolePartner, ListTicketRequest{
		OwnerID: "fan-2",
		Price:   200,
	})
	assert.ErrorIs(t, err, models.ErrTicketNotFound)

	listed, err := svc.ListForResale(ctx, ticket.TicketID, models.PartnerRolePartner, ListTicketRequest{
		OwnerID: "fan-1",
		Price:   200,
	})
	require.NoError(t, err)
	assert.True(t, listed.ForSale)

	market, err := svc.ResaleMarket(ctx, "G5vYZb2n3xAta", "fan-2")
	require.NoError(t, err)
	require.Len(t, market, 1)
	assert.Equal(t, ticket.TicketID, market[0].TicketID)

	// Sellers never see their own listing as purchasable.
	market, err = svc.ResaleMarket(ctx, "G5vYZb2n3xAta", "fan-1")
	require.NoError(t, err)
	assert.Empty(t, market)

	unlisted, err := svc.CancelResale(ctx, ticket.TicketID, models.PartnerRolePartner, UnlistTicketRequest{OwnerID: "fan-1"})
	require.NoError(t, err)
	assert.False(t, unlisted.ForSale)

	market, err = svc.ResaleMarket(ctx, "G5vYZb2n3xAta", "fan-2")
	require.NoError(t, err)
	assert.Empty(t, market)
}

func TestPurchaseResale(t *testing.T) {
	royalty := &stubRoyaltyAPI{}
	svc, events, _ := newTicketService(royalty)
	seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")
	ticket, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
		OfferID:     offer.OfferID,
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	})
	require.NoError(t, err)

	// Unlisted tickets cannot be bought
	_, err = svc.PurchaseResale(ctx, ticket.TicketID, models.PartnerRolePartner, ResalePurchaseRequest{
		BuyerID:     "fan-2",
		BuyerWallet: "Fan22222222222222222222222222222222222222",
	})
	assert.ErrorIs(t, err, models.ErrNotListedForResale)

	_, err = svc.ListForResale(ctx, ticket.TicketID, models.PartnerRolePartner, ListTicketRequest{
		OwnerID: "fan-1",
		Price:   200,
	})
	require.NoError(t, err)

	bought, err := svc.PurchaseResale(ctx, ticket.TicketID, models.PartnerRolePartner, ResalePurchaseRequest{
		BuyerID:     "fan-2",
		BuyerWallet: "Fan22222222222222222222222222222222222222",
	})
	require.NoError(t, err)

	assert.Equal(t, "fan-2", bought.OwnerID)
	assert.Equal(t, 200.0, bought.Price)
	assert.Equal(t, "fan-1", bought.OriginalOwnerID)
	assert.False(t, bought.ForSale)

	// The platform saw seller and both prices from the listing
	require.Len(t, royalty.purchaseCalls, 2)
	call := royalty.purchaseCalls[1]
	assert.Equal(t, "fan-1", call.SellerID)
	assert.Equal(t, "Fan11111111111111111111111111111111111111", call.SellerWallet)
	assert.Equal(t, 200.0, call.NewPrice)
	assert.Equal(t, offer.Price, call.OriginalPrice)
}

func TestPurchaseResaleAfterDistributionLocked(t *testing.T) {
	svc, events, _ := newTicketService(&stubRoyaltyAPI{})
	event := seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")
	ticket, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
		OfferID:     offer.OfferID,
		BuyerID:     "fan-1",
		BuyerWallet: "Fan11111111111111111111111111111111111111",
	})
	require.NoError(t, err)

	_, err = svc.ListForResale(ctx, ticket.TicketID, models.PartnerRolePartner, ListTicketRequest{
		OwnerID: "fan-1",
		Price:   200,
	})
	require.NoError(t, err)

	// The event distributes while the listing is live
	event.State = models.EventStateDistributed
	require.NoError(t, events.Put(ctx, event))

	_, err = svc.PurchaseResale(ctx, ticket.TicketID, models.PartnerRolePartner, ResalePurchaseRequest{
		BuyerID:     "fan-2",
		BuyerWallet: "Fan22222222222222222222222222222222222222",
	})
	assert.ErrorIs(t, err, models.ErrTradingLocked)
}

func TestTicketsByOwner(t *testing.T) {
	svc, events, _ := newTicketService(&stubRoyaltyAPI{})
	seedEvent(events, 2)
	ctx := context.Background()

	offer := firstOffer(t, svc, "G5vYZb2n3xAta")
	for _, buyer := range []string{"fan-1", "fan-1", "fan-2"} {
		_, err := svc.PurchasePrimary(ctx, "G5vYZb2n3xAta", models.PartnerRolePartner, PurchaseTicketRequest{
			OfferID:     offer.OfferID,
			BuyerID:     buyer,
			BuyerWallet: "Fan11111111111111111111111111111111111111",
		})
		require.NoError(t, err)
	}

	all, err := svc.Tickets(ctx, "G5vYZb2n3xAta", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	owned, err := svc.Tickets(ctx, "G5vYZb2n3xAta", "fan-1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	// Every minted ticket id is unique
	seen := map[string]bool{}
	for _, tk := range all {
		assert.False(t, seen[tk.TicketID])
		seen[tk.TicketID] = true
	}
}
