// internal/services/onboarding_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/config"
	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

// RoyaltyAPI is the slice of the royalty platform the services use.
// *clients.RoyaltyClient satisfies it.
type RoyaltyAPI interface {
	CreateEvent(ctx context.Context, req clients.CreateEventRequest) (*clients.EventRecord, error)
	GetEvent(ctx context.Context, eventID string) (*clients.EventRecord, error)
	UpdateDistribution(ctx context.Context, eventID string, parties []clients.PartyInput) error
	InitializeBlockchain(ctx context.Context, eventID string) error
	EnablePartnerAccounts(ctx context.Context, eventID string) error
	ApproveDistribution(ctx context.Context, eventID, credential string) (*clients.ApprovalStatus, error)
	Distribute(ctx context.Context, eventID string) (*clients.DistributionResult, error)
	ApprovalStatus(ctx context.Context, eventID string) (*clients.ApprovalStatus, error)
	Escrow(ctx context.Context, eventID string) (*clients.EscrowBalance, error)
	PurchaseTicket(ctx context.Context, eventID string, req clients.PurchaseRequest) error
}

// The default split applied when the caller does not supply one:
// artist 8%, venue 5%, platform 2% of every sale into escrow.
const (
	defaultArtistShare   = 8
	defaultVenueShare    = 5
	defaultPlatformShare = 2

	platformPartyName = "Ticketmaster"
	platformWallet    = "CD8bTqYcRvEvG1y73S5yZMP4PmXkqiMaP9NYvx6vxGbo"
)

type OnboardPartyRequest struct {
	PartyName     string  `json:"party_name" validate:"required,min=1,max=64"`
	Percentage    float64 `json:"percentage" validate:"required,gt=0,lte=100"`
	WalletAddress string  `json:"wallet_address" validate:"required,wallet_address"`
}

type OnboardEventRequest struct {
	SourceID              string                `json:"source_id" validate:"required,min=1,max=64"`
	Name                  string                `json:"name" validate:"required,min=1"`
	Description           string                `json:"description"`
	Venue                 string                `json:"venue"`
	EventDate             time.Time             `json:"event_date" validate:"required"`
	TotalTickets          int                   `json:"total_tickets" validate:"required,gt=0"`
	TicketPrice           float64               `json:"ticket_price" validate:"required,gt=0"`
	ArtistWallet          string                `json:"artist_wallet" validate:"required,wallet_address"`
	VenueWallet           string                `json:"venue_wallet" validate:"required,wallet_address"`
	Parties               []OnboardPartyRequest `json:"parties" validate:"omitempty,dive"`
	DistributionThreshold int                   `json:"distribution_threshold" validate:"omitempty,gte=1"`
}

// OnboardingService runs the three-step event onboarding workflow
// against the royalty platform and mirrors the result locally. Every
// step is safe to re-run: a partially onboarded event resumes where
// it stopped instead of failing.
type OnboardingService struct {
	royalty RoyaltyAPI
	events  storage.EventStore
	cfg     config.SimulatorConfig
	logger  *logrus.Logger
}

func NewOnboardingService(royalty RoyaltyAPI, events storage.EventStore, cfg config.SimulatorConfig, logger *logrus.Logger) *OnboardingService {
	return &OnboardingService{
		royalty: royalty,
		events:  events,
		cfg:     cfg,
		logger:  logger,
	}
}

// Onboard creates the event on the royalty platform, initializes its
// blockchain accounts, enables partner USDC accounts and stores the
// local mirror in the active state.
func (s *OnboardingService) Onboard(ctx context.Context, req OnboardEventRequest) (*models.Event, error) {
	eventID := utils.ShortEventID(req.SourceID)
	parties := s.buildParties(eventID, req)
	threshold := req.DistributionThreshold
	if threshold == 0 {
		threshold = (len(parties) + 1) / 2
	}

	if err := models.ValidateDistribution(parties, threshold); err != nil {
		return nil, err
	}

	// A distributed event is terminal. Re-onboarding must not revive
	// it as active with a fresh party list.
	if existing, err := s.events.Get(ctx, eventID); err == nil && existing.Distributed() {
		return nil, models.ErrAlreadyDistributed
	}

	log := s.logger.WithFields(logrus.Fields{
		"event_id":  eventID,
		"source_id": req.SourceID,
	})

	// Step 1: create the event record, or reconcile an existing one.
	createReq := clients.CreateEventRequest{
		EventID:               eventID,
		Name:                  utils.TruncateString(req.Name, 32),
		Description:           utils.TruncateString(req.Description, 200),
		Venue:                 utils.TruncateString(req.Venue, 64),
		EventDate:             req.EventDate,
		TotalTickets:          req.TotalTickets,
		TicketPrice:           req.TicketPrice,
		RoyaltyDistribution:   toPartyInputs(parties),
		DistributionThreshold: threshold,
	}

	_, err := s.royalty.CreateEvent(ctx, createReq)
	switch {
	case err == nil:
		log.Info("Event created on royalty platform")
	case errors.Is(err, models.ErrAlreadyExists):
		// The event record survives across sessions on the remote
		// side. Re-point its distribution at the wallets from this
		// request so stale wallets from an earlier run cannot strand
		// the payout.
		log.Info("Event already exists on royalty platform, updating distribution")
		if err := s.royalty.UpdateDistribution(ctx, eventID, toPartyInputs(parties)); err != nil {
			return nil, fmt.Errorf("reconciling distribution for %s: %w", eventID, err)
		}
	default:
		return nil, err
	}

	// Step 2: initialize the on-chain escrow account. Already
	// initialized means a previous run got this far; resume.
	if err := s.royalty.InitializeBlockchain(ctx, eventID); err != nil {
		if !errors.Is(err, models.ErrAlreadyInitialized) {
			return nil, err
		}
		log.Info("Blockchain already initialized, resuming")
	}

	// Step 3: enable the per-party USDC token accounts. Without them
	// distribution cannot pay out, so a failure here is fatal.
	if err := s.royalty.EnablePartnerAccounts(ctx, eventID); err != nil {
		return nil, fmt.Errorf("enabling partner accounts for %s: %w", eventID, err)
	}

	record, err := s.royalty.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		EventID:               eventID,
		SourceID:              req.SourceID,
		Name:                  createReq.Name,
		Description:           createReq.Description,
		Venue:                 createReq.Venue,
		EventDate:             req.EventDate,
		TotalTickets:          req.TotalTickets,
		TicketPrice:           req.TicketPrice,
		State:                 models.EventStatePending,
		DistributionThreshold: threshold,
		BlockchainPDA:         record.BlockchainPDA,
		Parties:               parties,
	}
	if err := event.Activate(); err != nil {
		return nil, err
	}
	syncParties(event, record.RoyaltyDistribution)

	if err := s.events.Put(ctx, event); err != nil {
		return nil, err
	}

	log.WithField("pda", event.BlockchainPDA).Info("Event onboarded")
	return event, nil
}

// Get returns the local mirror of an onboarded event.
func (s *OnboardingService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	return s.events.Get(ctx, eventID)
}

// List returns all locally onboarded events.
func (s *OnboardingService) List(ctx context.Context) ([]models.Event, error) {
	return s.events.List(ctx)
}

func (s *OnboardingService) buildParties(eventID string, req OnboardEventRequest) []models.Party {
	if len(req.Parties) > 0 {
		parties := make([]models.Party, 0, len(req.Parties))
		for _, p := range req.Parties {
			parties = append(parties, models.Party{
				EventID:       eventID,
				PartyName:     p.PartyName,
				WalletAddress: p.WalletAddress,
				Percentage:    p.Percentage,
				State:         models.PartyStateUnapproved,
			})
		}
		return parties
	}

	return []models.Party{
		{EventID: eventID, PartyName: "Artist", WalletAddress: req.ArtistWallet, Percentage: defaultArtistShare, State: models.PartyStateUnapproved},
		{EventID: eventID, PartyName: "Venue", WalletAddress: req.VenueWallet, Percentage: defaultVenueShare, State: models.PartyStateUnapproved},
		{EventID: eventID, PartyName: platformPartyName, WalletAddress: platformWallet, Percentage: defaultPlatformShare, State: models.PartyStateUnapproved},
	}
}

func toPartyInputs(parties []models.Party) []clients.PartyInput {
	inputs := make([]clients.PartyInput, 0, len(parties))
	for _, p := range parties {
		inputs = append(inputs, clients.PartyInput{
			PartyName:     p.PartyName,
			Percentage:    p.Percentage,
			WalletAddress: p.WalletAddress,
		})
	}
	return inputs
}

// syncParties copies remote approval flags onto the mirror. The
// remote side is authoritative for approvals; percentages and names
// stay as onboarded.
func syncParties(event *models.Event, records []clients.PartyRecord) {
	for _, r := range records {
		if !r.Approved {
			continue
		}
		if party := event.PartyByWallet(r.WalletAddress); party != nil {
			party.Approve()
		}
	}
}
