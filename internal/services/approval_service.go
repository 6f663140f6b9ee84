// internal/services/approval_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage"
)

// ApprovalService drives the multi-signature payout lifecycle: party
// approvals accumulate until the threshold is met, then a single
// distribution empties escrow. The local mirror is only written after
// the royalty platform confirmed the matching state change.
type ApprovalService struct {
	royalty RoyaltyAPI
	events  storage.EventStore
	logger  *logrus.Logger
}

func NewApprovalService(royalty RoyaltyAPI, events storage.EventStore, logger *logrus.Logger) *ApprovalService {
	return &ApprovalService{
		royalty: royalty,
		events:  events,
		logger:  logger,
	}
}

type ApproveRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,wallet_address"`
	Credential    string `json:"credential" validate:"required"`
}

// ApprovalView is the combined local/remote view of an event's payout
// state handed back to integrators.
type ApprovalView struct {
	EventID       string          `json:"event_id"`
	Parties       []models.Party  `json:"parties"`
	ApprovedCount int             `json:"approved_count"`
	Threshold     int             `json:"threshold"`
	TotalParties  int             `json:"total_parties"`
	EscrowBalance float64         `json:"escrow_balance"`
	CanDistribute bool            `json:"can_distribute"`
	Distributed   bool            `json:"distributed"`
	DistributedAt *time.Time      `json:"distributed_at,omitempty"`
	Payouts       []models.Payout `json:"payouts,omitempty"`
}

// Approve records one party's signature. Re-approving is a no-op
// success; the remote platform is only called when the approval
// actually changes state.
func (s *ApprovalService) Approve(ctx context.Context, eventID string, req ApproveRequest) (*ApprovalView, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	changed, err := event.Approve(req.WalletAddress)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.view(event), nil
	}

	status, err := s.royalty.ApproveDistribution(ctx, eventID, req.Credential)
	if err != nil {
		// The local copy is discarded; the mirror still shows the
		// party as unapproved.
		return nil, err
	}
	event.EscrowBalance = status.EscrowBalance

	if err := s.events.Put(ctx, event); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": eventID,
		"wallet":   req.WalletAddress,
		"approved": event.ApprovedCount(),
	}).Info("Distribution approval recorded")

	return s.view(event), nil
}

// Status polls the royalty platform and folds any approvals recorded
// outside this API into the mirror before reporting.
func (s *ApprovalService) Status(ctx context.Context, eventID string) (*ApprovalView, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	status, err := s.royalty.ApprovalStatus(ctx, eventID)
	if err != nil {
		return nil, err
	}

	syncParties(event, status.Parties)
	if status.Distributed && !event.Distributed() {
		// The payout ran outside this API. The platform already
		// executed it, so the mirror moves to its terminal state
		// regardless of which approvals this instance has seen.
		now := time.Now().UTC()
		event.State = models.EventStateDistributed
		event.DistributedAt = &now
		event.EscrowBalance = 0
		s.logger.WithField("event_id", eventID).Info("Distribution detected on poll")
	}
	if !event.Distributed() {
		event.EscrowBalance = status.EscrowBalance
	}
	if err := s.events.Put(ctx, event); err != nil {
		return nil, err
	}

	return s.view(event), nil
}

// Distribute executes the payout once the approval threshold is met.
// The escrow balance is re-read from the platform immediately before
// the split so the payout figures match what was actually held.
func (s *ApprovalService) Distribute(ctx context.Context, eventID string) (*ApprovalView, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Distributed() {
		return nil, models.ErrAlreadyDistributed
	}
	if !event.ChainReady() {
		return nil, models.ErrEventNotActive
	}
	if !event.CanDistribute() {
		return nil, models.ErrThresholdNotMet
	}

	balance, err := s.royalty.Escrow(ctx, eventID)
	if err != nil {
		return nil, err
	}
	event.EscrowBalance = balance.Decimal()
	payouts := event.Payouts()

	if _, err := s.royalty.Distribute(ctx, eventID); err != nil {
		return nil, err
	}

	if err := event.MarkDistributed(time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.events.Put(ctx, event); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": eventID,
		"payouts":  len(payouts),
	}).Info("Royalties distributed")

	view := s.view(event)
	view.Payouts = payouts
	return view, nil
}

func (s *ApprovalService) view(event *models.Event) *ApprovalView {
	return &ApprovalView{
		EventID:       event.EventID,
		Parties:       event.Parties,
		ApprovedCount: event.ApprovedCount(),
		Threshold:     event.DistributionThreshold,
		TotalParties:  len(event.Parties),
		EscrowBalance: event.EscrowBalance,
		CanDistribute: event.CanDistribute() && !event.Distributed(),
		Distributed:   event.Distributed(),
		DistributedAt: event.DistributedAt,
	}
}
