// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// The postgres stores are the durable mode of the same interfaces the
// memory stores implement. Ticket sets keep their full-replace
// semantics: one transaction swaps the entire set for an event.

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Get(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).Preload("Parties").Where("event_id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading event %s: %w", eventID, err)
	}
	return &event, nil
}

func (s *EventStore) Put(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Event
		err := tx.Where("event_id = ?", event.EventID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("Parties").Create(event).Error; err != nil {
				if isUniqueViolation(err) {
					return models.ErrAlreadyExists
				}
				return fmt.Errorf("creating event %s: %w", event.EventID, err)
			}
		case err != nil:
			return fmt.Errorf("loading event %s: %w", event.EventID, err)
		default:
			event.ID = existing.ID
			if err := tx.Model(&existing).Omit("Parties").Updates(map[string]interface{}{
				"name":                   event.Name,
				"description":            event.Description,
				"venue":                  event.Venue,
				"event_date":             event.EventDate,
				"total_tickets":          event.TotalTickets,
				"ticket_price":           event.TicketPrice,
				"state":                  event.State,
				"escrow_balance":         event.EscrowBalance,
				"distribution_threshold": event.DistributionThreshold,
				"blockchain_pda":         event.BlockchainPDA,
				"distributed_at":         event.DistributedAt,
			}).Error; err != nil {
				return fmt.Errorf("updating event %s: %w", event.EventID, err)
			}
		}

		if err := tx.Unscoped().Where("event_id = ?", event.EventID).Delete(&models.Party{}).Error; err != nil {
			return fmt.Errorf("clearing parties for %s: %w", event.EventID, err)
		}
		for i := range event.Parties {
			event.Parties[i].EventID = event.EventID
			event.Parties[i].ID = uuid.Nil
		}
		if len(event.Parties) > 0 {
			if err := tx.Create(&event.Parties).Error; err != nil {
				return fmt.Errorf("storing parties for %s: %w", event.EventID, err)
			}
		}
		return nil
	})
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Preload("Parties").Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

type TicketStore struct {
	db *gorm.DB
}

func NewTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{db: db}
}

func (s *TicketStore) Get(ctx context.Context, eventID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("purchased_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("loading tickets for %s: %w", eventID, err)
	}
	return tickets, nil
}

func (s *TicketStore) Replace(ctx context.Context, eventID string, tickets []models.Ticket) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", eventID).Delete(&models.Ticket{}).Error; err != nil {
			return fmt.Errorf("clearing tickets for %s: %w", eventID, err)
		}
		for i := range tickets {
			tickets[i].EventID = eventID
			tickets[i].ID = uuid.Nil
		}
		if len(tickets) > 0 {
			if err := tx.Create(&tickets).Error; err != nil {
				return fmt.Errorf("storing tickets for %s: %w", eventID, err)
			}
		}
		return nil
	})
}

type PartnerStore struct {
	db *gorm.DB
}

func NewPartnerStore(db *gorm.DB) *PartnerStore {
	return &PartnerStore{db: db}
}

func (s *PartnerStore) CreatePartner(ctx context.Context, partner *models.Partner, key *models.APIKey) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(partner).Error; err != nil {
			if isUniqueViolation(err) {
				return models.ErrAlreadyExists
			}
			return fmt.Errorf("creating partner: %w", err)
		}
		key.PartnerID = partner.ID
		if err := tx.Create(key).Error; err != nil {
			return fmt.Errorf("storing api key: %w", err)
		}
		return nil
	})
}

func (s *PartnerStore) FindKeysByPrefix(ctx context.Context, prefix string) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := s.db.WithContext(ctx).
		Preload("Partner").
		Where("prefix = ? AND revoked_at IS NULL", prefix).
		Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("looking up api keys: %w", err)
	}
	return keys, nil
}

func (s *PartnerStore) RevokeKey(ctx context.Context, keyID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Model(&models.APIKey{}).
		Where("id = ? AND revoked_at IS NULL", keyID).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return fmt.Errorf("revoking api key: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrAPIKeyInvalid
	}
	return nil
}

func (s *PartnerStore) TouchKey(ctx context.Context, keyID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&models.APIKey{}).
		Where("id = ?", keyID).
		Update("last_used_at", time.Now()).Error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
