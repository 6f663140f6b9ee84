// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// EventStore holds the locally mirrored event records, keyed by the
// short event identifier.
type EventStore interface {
	Get(ctx context.Context, eventID string) (*models.Event, error)
	Put(ctx context.Context, event *models.Event) error
	List(ctx context.Context) ([]models.Event, error)
}

// TicketStore is the event-scoped ticket ledger. The full ticket set
// of one event is read and replaced as a single unit; the storage
// medium behind it is swappable without touching ledger logic.
type TicketStore interface {
	Get(ctx context.Context, eventID string) ([]models.Ticket, error)
	Replace(ctx context.Context, eventID string, tickets []models.Ticket) error
}

// PartnerStore holds integrator accounts and their API keys.
type PartnerStore interface {
	CreatePartner(ctx context.Context, partner *models.Partner, key *models.APIKey) error
	FindKeysByPrefix(ctx context.Context, prefix string) ([]models.APIKey, error)
	RevokeKey(ctx context.Context, keyID uuid.UUID) error
	TouchKey(ctx context.Context, keyID uuid.UUID) error
}
