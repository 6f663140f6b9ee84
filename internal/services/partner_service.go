// internal/services/partner_service.go
package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage"
	"github.com/actn-dev/solpass-partner-api/internal/utils"
)

// PartnerService issues and verifies integrator API keys. Keys are
// stored as bcrypt hashes; the plaintext leaves the service exactly
// once, in the creation response.
type PartnerService struct {
	partners storage.PartnerStore
	logger   *logrus.Logger
}

func NewPartnerService(partners storage.PartnerStore, logger *logrus.Logger) *PartnerService {
	return &PartnerService{
		partners: partners,
		logger:   logger,
	}
}

type CreatePartnerRequest struct {
	Name  string             `json:"name" validate:"required,min=1,max=100"`
	Email string             `json:"email" validate:"required,email"`
	Role  models.PartnerRole `json:"role" validate:"omitempty,oneof=admin partner"`
}

type CreatePartnerResponse struct {
	Partner models.Partner `json:"partner"`
	KeyID   uuid.UUID      `json:"key_id"`
	APIKey  string         `json:"api_key"`
}

func (s *PartnerService) CreatePartner(ctx context.Context, req CreatePartnerRequest) (*CreatePartnerResponse, error) {
	role := req.Role
	if role == "" {
		role = models.PartnerRolePartner
	}

	plaintext, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	partner := &models.Partner{
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	}
	key := &models.APIKey{
		Prefix:  utils.APIKeyPrefix(plaintext),
		KeyHash: string(hash),
	}

	if err := s.partners.CreatePartner(ctx, partner, key); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"partner_id": partner.ID,
		"role":       role,
	}).Info("Partner account created")

	return &CreatePartnerResponse{
		Partner: *partner,
		KeyID:   key.ID,
		APIKey:  plaintext,
	}, nil
}

// VerifyKey resolves a presented API key to its partner. Candidates
// are narrowed by the stored prefix, then settled by hash comparison.
func (s *PartnerService) VerifyKey(ctx context.Context, key string) (*models.Partner, *models.APIKey, error) {
	if key == "" {
		return nil, nil, models.ErrAPIKeyInvalid
	}

	candidates, err := s.partners.FindKeysByPrefix(ctx, utils.APIKeyPrefix(key))
	if err != nil {
		return nil, nil, err
	}

	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].KeyHash), []byte(key)) != nil {
			continue
		}
		if candidates[i].Partner == nil {
			return nil, nil, models.ErrAPIKeyInvalid
		}
		if err := s.partners.TouchKey(ctx, candidates[i].ID); err != nil {
			s.logger.WithError(err).Warn("Failed to record API key use")
		}
		return candidates[i].Partner, &candidates[i], nil
	}

	return nil, nil, models.ErrAPIKeyInvalid
}

func (s *PartnerService) RevokeKey(ctx context.Context, keyID uuid.UUID) error {
	if err := s.partners.RevokeKey(ctx, keyID); err != nil {
		return err
	}
	s.logger.WithField("key_id", keyID).Info("API key revoked")
	return nil
}
