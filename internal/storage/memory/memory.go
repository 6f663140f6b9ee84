// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

// The memory stores keep everything in process memory. This is the
// session mode: state lives exactly as long as the simulator run,
// mirroring the single-session persistence scope of the hosted
// dashboard.

type EventStore struct {
	mtx    sync.RWMutex
	events map[string]models.Event
}

func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]models.Event)}
}

func (s *EventStore) Get(ctx context.Context, eventID string) (*models.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	event, ok := s.events[eventID]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	copied := event
	copied.Parties = append([]models.Party(nil), event.Parties...)
	return &copied, nil
}

func (s *EventStore) Put(ctx context.Context, event *models.Event) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	copied := *event
	copied.Parties = append([]models.Party(nil), event.Parties...)
	s.events[event.EventID] = copied
	return nil
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	events := make([]models.Event, 0, len(s.events))
	for _, event := range s.events {
		copied := event
		copied.Parties = append([]models.Party(nil), event.Parties...)
		events = append(events, copied)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventID < events[j].EventID })
	return events, nil
}

type TicketStore struct {
	mtx     sync.RWMutex
	tickets map[string][]models.Ticket
}

func NewTicketStore() *TicketStore {
	return &TicketStore{tickets: make(map[string][]models.Ticket)}
}

func (s *TicketStore) Get(ctx context.Context, eventID string) ([]models.Ticket, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return append([]models.Ticket(nil), s.tickets[eventID]...), nil
}

func (s *TicketStore) Replace(ctx context.Context, eventID string, tickets []models.Ticket) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.tickets[eventID] = append([]models.Ticket(nil), tickets...)
	return nil
}

type PartnerStore struct {
	mtx      sync.RWMutex
	partners map[uuid.UUID]models.Partner
	keys     map[uuid.UUID]models.APIKey
}

func NewPartnerStore() *PartnerStore {
	return &PartnerStore{
		partners: make(map[uuid.UUID]models.Partner),
		keys:     make(map[uuid.UUID]models.APIKey),
	}
}

func (s *PartnerStore) CreatePartner(ctx context.Context, partner *models.Partner, key *models.APIKey) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.partners {
		if existing.Email == partner.Email {
			return models.ErrAlreadyExists
		}
	}
	if partner.ID == uuid.Nil {
		partner.ID = uuid.New()
	}
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	key.PartnerID = partner.ID
	s.partners[partner.ID] = *partner
	s.keys[key.ID] = *key
	return nil
}

func (s *PartnerStore) FindKeysByPrefix(ctx context.Context, prefix string) ([]models.APIKey, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var matches []models.APIKey
	for _, key := range s.keys {
		if key.Prefix != prefix || key.Revoked() {
			continue
		}
		copied := key
		if partner, ok := s.partners[key.PartnerID]; ok {
			p := partner
			copied.Partner = &p
		}
		matches = append(matches, copied)
	}
	return matches, nil
}

func (s *PartnerStore) RevokeKey(ctx context.Context, keyID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key, ok := s.keys[keyID]
	if !ok {
		return models.ErrAPIKeyInvalid
	}
	now := time.Now()
	key.RevokedAt = &now
	s.keys[keyID] = key
	return nil
}

func (s *PartnerStore) TouchKey(ctx context.Context, keyID uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key, ok := s.keys[keyID]
	if !ok {
		return models.ErrAPIKeyInvalid
	}
	now := time.Now()
	key.LastUsedAt = &now
	s.keys[keyID] = key
	return nil
}
