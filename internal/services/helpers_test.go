// internal/services/helpers_test.go
package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/config"
	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage/memory"
)

// stubRoyaltyAPI lets each test script the remote platform. Unset
// hooks succeed with empty results.
type stubRoyaltyAPI struct {
	createEvent     func(req clients.CreateEventRequest) (*clients.EventRecord, error)
	getEvent        func(eventID string) (*clients.EventRecord, error)
	updateDist      func(eventID string, parties []clients.PartyInput) error
	initBlockchain  func(eventID string) error
	enablePartners  func(eventID string) error
	approve         func(eventID, credential string) (*clients.ApprovalStatus, error)
	distribute      func(eventID string) (*clients.DistributionResult, error)
	approvalStatus  func(eventID string) (*clients.ApprovalStatus, error)
	escrow          func(eventID string) (*clients.EscrowBalance, error)
	purchaseTicket  func(eventID string, req clients.PurchaseRequest) error
	purchaseCalls   []clients.PurchaseRequest
	distributeCalls int
}

func (s *stubRoyaltyAPI) CreateEvent(ctx context.Context, req clients.CreateEventRequest) (*clients.EventRecord, error) {
	if s.createEvent != nil {
		return s.createEvent(req)
	}
	return &clients.EventRecord{EventID: req.EventID, Name: req.Name}, nil
}

func (s *stubRoyaltyAPI) GetEvent(ctx context.Context, eventID string) (*clients.EventRecord, error) {
	if s.getEvent != nil {
		return s.getEvent(eventID)
	}
	return &clients.EventRecord{EventID: eventID}, nil
}

func (s *stubRoyaltyAPI) UpdateDistribution(ctx context.Context, eventID string, parties []clients.PartyInput) error {
	if s.updateDist != nil {
		return s.updateDist(eventID, parties)
	}
	return nil
}

func (s *stubRoyaltyAPI) InitializeBlockchain(ctx context.Context, eventID string) error {
	if s.initBlockchain != nil {
		return s.initBlockchain(eventID)
	}
	return nil
}

func (s *stubRoyaltyAPI) EnablePartnerAccounts(ctx context.Context, eventID string) error {
	if s.enablePartners != nil {
		return s.enablePartners(eventID)
	}
	return nil
}

func (s *stubRoyaltyAPI) ApproveDistribution(ctx context.Context, eventID, credential string) (*clients.ApprovalStatus, error) {
	if s.approve != nil {
		return s.approve(eventID, credential)
	}
	return &clients.ApprovalStatus{EventID: eventID}, nil
}

func (s *stubRoyaltyAPI) Distribute(ctx context.Context, eventID string) (*clients.DistributionResult, error) {
	s.distributeCalls++
	if s.distribute != nil {
		return s.distribute(eventID)
	}
	return &clients.DistributionResult{EventID: eventID}, nil
}

func (s *stubRoyaltyAPI) ApprovalStatus(ctx context.Context, eventID string) (*clients.ApprovalStatus, error) {
	if s.approvalStatus != nil {
		return s.approvalStatus(eventID)
	}
	return &clients.ApprovalStatus{EventID: eventID}, nil
}

func (s *stubRoyaltyAPI) Escrow(ctx context.Context, eventID string) (*clients.EscrowBalance, error) {
	if s.escrow != nil {
		return s.escrow(eventID)
	}
	return &clients.EscrowBalance{}, nil
}

func (s *stubRoyaltyAPI) PurchaseTicket(ctx context.Context, eventID string, req clients.PurchaseRequest) error {
	s.purchaseCalls = append(s.purchaseCalls, req)
	if s.purchaseTicket != nil {
		return s.purchaseTicket(eventID, req)
	}
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testSimConfig() config.SimulatorConfig {
	return config.SimulatorConfig{
		AdminUserID:     "shop-admin",
		AdminWallet:     "ShopAdmin1234567890abcdefghijklmnopqrstuvwxyz",
		DefaultCurrency: "USD",
		MinOfferPrice:   50,
		MaxOfferPrice:   150,
	}
}

// seedEvent puts an active three-party event into the store.
func seedEvent(store *memory.EventStore, threshold int) *models.Event {
	event := &models.Event{
		EventID:               "G5vYZb2n3xAta",
		SourceID:              "G5vYZb2n3xAta",
		Name:                  "Test Concert",
		EventDate:             time.Now().UTC().Add(30 * 24 * time.Hour),
		TotalTickets:          500,
		TicketPrice:           95,
		State:                 models.EventStateActive,
		DistributionThreshold: threshold,
		Parties: []models.Party{
			{EventID: "G5vYZb2n3xAta", PartyName: "Artist", WalletAddress: "Artist111111111111111111111111111111111111", Percentage: 8, State: models.PartyStateUnapproved},
			{EventID: "G5vYZb2n3xAta", PartyName: "Venue", WalletAddress: "Venue1111111111111111111111111111111111111", Percentage: 5, State: models.PartyStateUnapproved},
			{EventID: "G5vYZb2n3xAta", PartyName: "Ticketmaster", WalletAddress: "CD8bTqYcRvEvG1y73S5yZMP4PmXkqiMaP9NYvx6vxGbo", Percentage: 2, State: models.PartyStateUnapproved},
		},
	}
	if err := store.Put(context.Background(), event); err != nil {
		panic(err)
	}
	return event
}
