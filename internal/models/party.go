// internal/models/party.go
package models

// Party is a royalty recipient attached to one event. The party list
// and percentages are fixed at onboarding; only the approval state
// moves, and only forward.
type Party struct {
	BaseModel
	EventID       string     `json:"event_id" gorm:"size:16;not null;index"`
	PartyName     string     `json:"party_name" gorm:"size:64;not null"`
	WalletAddress string     `json:"wallet_address" gorm:"size:64;not null"`
	Percentage    float64    `json:"percentage" gorm:"type:decimal(5,2);not null"`
	State         PartyState `json:"state" gorm:"type:varchar(20);default:'unapproved'"`
}

func (p *Party) Approved() bool {
	return p.State == PartyStateApproved
}

// Approve moves the party to approved. Returns false when the party
// was already approved (no state change).
func (p *Party) Approve() bool {
	if p.State == PartyStateApproved {
		return false
	}
	p.State = PartyStateApproved
	return true
}

// ValidateDistribution checks the fixed-at-onboarding constraints: at
// least one party, shares summing to at most 100, and a threshold
// within 1..len(parties).
func ValidateDistribution(parties []Party, threshold int) error {
	if len(parties) == 0 {
		return ErrInvalidDistribution
	}
	total := 0.0
	for _, p := range parties {
		if p.Percentage < 0 || p.Percentage > 100 {
			return ErrInvalidDistribution
		}
		total += p.Percentage
	}
	if total > 100 {
		return ErrInvalidDistribution
	}
	if threshold < 1 || threshold > len(parties) {
		return ErrInvalidDistribution
	}
	return nil
}
