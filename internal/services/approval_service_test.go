// internal/services/approval_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actn-dev/solpass-partner-api/internal/clients"
	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage/memory"
)

func TestApprovalFlow(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 2)
	royalty := &stubRoyaltyAPI{
		approve: func(eventID, credential string) (*clients.ApprovalStatus, error) {
			assert.Equal(t, "signer-secret", credential)
			return &clients.ApprovalStatus{EventID: eventID, EscrowBalance: 42.5}, nil
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())
	ctx := context.Background()

	view, err := svc.Approve(ctx, "G5vYZb2n3xAta", ApproveRequest{
		WalletAddress: "Artist111111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, view.ApprovedCount)
	assert.False(t, view.CanDistribute)
	assert.Equal(t, 42.5, view.EscrowBalance)

	// The approval survives in the mirror
	event, err := store.Get(ctx, "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.Equal(t, 1, event.ApprovedCount())

	view, err = svc.Approve(ctx, "G5vYZb2n3xAta", ApproveRequest{
		WalletAddress: "Venue1111111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, view.ApprovedCount)
	assert.True(t, view.CanDistribute)
}

func TestApprovalIdempotent(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 2)
	remoteCalls := 0
	royalty := &stubRoyaltyAPI{
		approve: func(eventID, credential string) (*clients.ApprovalStatus, error) {
			remoteCalls++
			return &clients.ApprovalStatus{EventID: eventID}, nil
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())
	ctx := context.Background()

	req := ApproveRequest{
		WalletAddress: "Artist111111111111111111111111111111111111",
		Credential:    "signer-secret",
	}
	_, err := svc.Approve(ctx, "G5vYZb2n3xAta", req)
	require.NoError(t, err)

	// Re-approving does not hit the platform again
	view, err := svc.Approve(ctx, "G5vYZb2n3xAta", req)
	require.NoError(t, err)
	assert.Equal(t, 1, view.ApprovedCount)
	assert.Equal(t, 1, remoteCalls)
}

func TestApprovalRejectsUnknownParty(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 2)
	svc := NewApprovalService(&stubRoyaltyAPI{}, store, testLogger())

	_, err := svc.Approve(context.Background(), "G5vYZb2n3xAta", ApproveRequest{
		WalletAddress: "Stranger11111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	assert.ErrorIs(t, err, models.ErrUnknownParty)

	_, err = svc.Approve(context.Background(), "unknown-event", ApproveRequest{
		WalletAddress: "Artist111111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestApprovalRemoteFailureLeavesMirrorUntouched(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 2)
	royalty := &stubRoyaltyAPI{
		approve: func(eventID, credential string) (*clients.ApprovalStatus, error) {
			return nil, &models.RemoteError{Service: "royalty", StatusCode: 502}
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())
	ctx := context.Background()

	_, err := svc.Approve(ctx, "G5vYZb2n3xAta", ApproveRequest{
		WalletAddress: "Artist111111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	assert.ErrorIs(t, err, models.ErrRemoteCall)

	event, err := store.Get(ctx, "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.Equal(t, 0, event.ApprovedCount())
}

func TestDistribute(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 1)
	royalty := &stubRoyaltyAPI{
		escrow: func(eventID string) (*clients.EscrowBalance, error) {
			return &clients.EscrowBalance{USDCAmount: 100_000_000}, nil
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())
	ctx := context.Background()

	// Below threshold
	_, err := svc.Distribute(ctx, "G5vYZb2n3xAta")
	assert.ErrorIs(t, err, models.ErrThresholdNotMet)

	_, err = svc.Approve(ctx, "G5vYZb2n3xAta", ApproveRequest{
		WalletAddress: "Artist111111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	require.NoError(t, err)

	view, err := svc.Distribute(ctx, "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.True(t, view.Distributed)
	require.Len(t, view.Payouts, 3)

	// $100 escrow split 8/5/2
	byName := map[string]float64{}
	for _, p := range view.Payouts {
		byName[p.PartyName] = p.Amount
	}
	assert.InDelta(t, 8.0, byName["Artist"], 0.001)
	assert.InDelta(t, 5.0, byName["Venue"], 0.001)
	assert.InDelta(t, 2.0, byName["Ticketmaster"], 0.001)

	// Escrow is emptied and the state is terminal
	event, err := store.Get(ctx, "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.Equal(t, 0.0, event.EscrowBalance)

	_, err = svc.Distribute(ctx, "G5vYZb2n3xAta")
	assert.ErrorIs(t, err, models.ErrAlreadyDistributed)
	assert.Equal(t, 1, royalty.distributeCalls)
}

func TestDistributeRemoteFailure(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 1)
	royalty := &stubRoyaltyAPI{
		escrow: func(eventID string) (*clients.EscrowBalance, error) {
			return &clients.EscrowBalance{USDCAmount: 100_000_000}, nil
		},
		distribute: func(eventID string) (*clients.DistributionResult, error) {
			return nil, &models.RemoteError{Service: "royalty", StatusCode: 500}
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())
	ctx := context.Background()

	_, err := svc.Approve(ctx, "G5vYZb2n3xAta", ApproveRequest{
		WalletAddress: "Artist111111111111111111111111111111111111",
		Credential:    "signer-secret",
	})
	require.NoError(t, err)

	_, err = svc.Distribute(ctx, "G5vYZb2n3xAta")
	assert.ErrorIs(t, err, models.ErrRemoteCall)

	// The event stays distributable
	event, err := store.Get(ctx, "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.False(t, event.Distributed())
	assert.True(t, event.CanDistribute())
}

func TestStatusSyncsExternalApprovals(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 2)
	royalty := &stubRoyaltyAPI{
		approvalStatus: func(eventID string) (*clients.ApprovalStatus, error) {
			return &clients.ApprovalStatus{
				EventID:       eventID,
				EscrowBalance: 12.34,
				Parties: []clients.PartyRecord{
					{PartyName: "Artist", WalletAddress: "Artist111111111111111111111111111111111111", Approved: true},
					{PartyName: "Venue", WalletAddress: "Venue1111111111111111111111111111111111111", Approved: false},
				},
			}, nil
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())

	view, err := svc.Status(context.Background(), "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.Equal(t, 1, view.ApprovedCount)
	assert.Equal(t, 12.34, view.EscrowBalance)

	var notRemote *models.RemoteError
	assert.False(t, errors.As(err, &notRemote))
}

func TestStatusDetectsRemoteDistribution(t *testing.T) {
	store := memory.NewEventStore()
	seedEvent(store, 2)
	royalty := &stubRoyaltyAPI{
		approvalStatus: func(eventID string) (*clients.ApprovalStatus, error) {
			// The platform distributed even though this instance only
			// saw one of the two required approvals.
			return &clients.ApprovalStatus{
				EventID:     eventID,
				Distributed: true,
				Parties: []clients.PartyRecord{
					{PartyName: "Artist", WalletAddress: "Artist111111111111111111111111111111111111", Approved: true},
				},
			}, nil
		},
	}
	svc := NewApprovalService(royalty, store, testLogger())

	view, err := svc.Status(context.Background(), "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.True(t, view.Distributed)
	require.NotNil(t, view.DistributedAt)
	assert.Zero(t, view.EscrowBalance)

	// The mirror reached its terminal state, so trading locks and a
	// second payout is refused.
	event, err := store.Get(context.Background(), "G5vYZb2n3xAta")
	require.NoError(t, err)
	assert.True(t, TradingLocked(models.PartnerRolePartner, event))

	_, err = svc.Distribute(context.Background(), "G5vYZb2n3xAta")
	assert.ErrorIs(t, err, models.ErrAlreadyDistributed)
}
