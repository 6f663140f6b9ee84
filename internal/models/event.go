// internal/models/event.go
package models

import (
	"math"
	"time"
)

// Event mirrors the royalty-platform record for an onboarded event.
// The remote service is the source of truth; the mirror is what the
// gate and the approval state machine read between polls.
type Event struct {
	BaseModel
	EventID               string     `json:"event_id" gorm:"size:16;uniqueIndex;not null"`
	SourceID              string     `json:"source_id" gorm:"size:64;index"`
	Name                  string     `json:"name" gorm:"size:32;not null"`
	Description           string     `json:"description" gorm:"size:200"`
	Venue                 string     `json:"venue" gorm:"size:64"`
	EventDate             time.Time  `json:"event_date"`
	TotalTickets          int        `json:"total_tickets"`
	TicketPrice           float64    `json:"ticket_price" gorm:"type:decimal(10,2)"`
	State                 EventState `json:"state" gorm:"type:varchar(20);default:'pending';index"`
	EscrowBalance         float64    `json:"escrow_balance" gorm:"type:decimal(14,6)"`
	DistributionThreshold int        `json:"distribution_threshold"`
	BlockchainPDA         string     `json:"blockchain_pda" gorm:"size:64"`
	DistributedAt         *time.Time `json:"distributed_at"`

	Parties []Party `json:"parties" gorm:"foreignKey:EventID;references:EventID"`
}

// Payout is the computed share of one party at distribution time.
type Payout struct {
	PartyName     string  `json:"party_name"`
	WalletAddress string  `json:"wallet_address"`
	Percentage    float64 `json:"percentage"`
	Amount        float64 `json:"amount"`
}

// Activate flips the royalty layer on. Valid only from the pending
// state; every other edge is rejected.
func (e *Event) Activate() error {
	switch e.State {
	case EventStatePending:
		e.State = EventStateActive
		return nil
	case EventStateActive, EventStateDistributed:
		return ErrAlreadyInitialized
	default:
		return ErrInvalidTransition
	}
}

// ChainReady reports whether the royalty layer has been initialized.
// A distributed event stayed on chain, so it still counts as ready.
func (e *Event) ChainReady() bool {
	return e.State == EventStateActive || e.State == EventStateDistributed
}

func (e *Event) Distributed() bool {
	return e.State == EventStateDistributed
}

func (e *Event) ApprovedCount() int {
	count := 0
	for _, p := range e.Parties {
		if p.State == PartyStateApproved {
			count++
		}
	}
	return count
}

func (e *Event) CanDistribute() bool {
	return e.ApprovedCount() >= e.DistributionThreshold
}

func (e *Event) PartyByWallet(wallet string) *Party {
	for i := range e.Parties {
		if e.Parties[i].WalletAddress == wallet {
			return &e.Parties[i]
		}
	}
	return nil
}

// Approve marks the party with the given wallet as approved. It
// returns false with a nil error when the party had already approved;
// re-approval is a no-op, not a failure.
func (e *Event) Approve(wallet string) (bool, error) {
	if e.State == EventStateDistributed {
		return false, ErrAlreadyDistributed
	}
	if !e.ChainReady() {
		return false, ErrEventNotActive
	}
	party := e.PartyByWallet(wallet)
	if party == nil {
		return false, ErrUnknownParty
	}
	return party.Approve(), nil
}

// Payouts splits the current escrow balance across the parties by
// percentage, rounded to cents.
func (e *Event) Payouts() []Payout {
	payouts := make([]Payout, 0, len(e.Parties))
	for _, p := range e.Parties {
		payouts = append(payouts, Payout{
			PartyName:     p.PartyName,
			WalletAddress: p.WalletAddress,
			Percentage:    p.Percentage,
			Amount:        math.Round(e.EscrowBalance*p.Percentage) / 100,
		})
	}
	return payouts
}

// MarkDistributed is the terminal transition. It requires the
// threshold to be met and empties escrow.
func (e *Event) MarkDistributed(now time.Time) error {
	if e.State == EventStateDistributed {
		return ErrAlreadyDistributed
	}
	if !e.ChainReady() {
		return ErrEventNotActive
	}
	if !e.CanDistribute() {
		return ErrThresholdNotMet
	}
	e.State = EventStateDistributed
	e.DistributedAt = &now
	e.EscrowBalance = 0
	return nil
}
