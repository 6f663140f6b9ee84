// internal/services/partner_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actn-dev/solpass-partner-api/internal/models"
	"github.com/actn-dev/solpass-partner-api/internal/storage/memory"
)

func TestPartnerKeyLifecycle(t *testing.T) {
	svc := NewPartnerService(memory.NewPartnerStore(), testLogger())
	ctx := context.Background()

	created, err := svc.CreatePartner(ctx, CreatePartnerRequest{
		Name:  "Acme Tickets",
		Email: "dev@acme.example",
		Role:  models.PartnerRolePartner,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.APIKey, "sp_"))
	assert.Len(t, created.APIKey, 35)

	partner, key, err := svc.VerifyKey(ctx, created.APIKey)
	require.NoError(t, err)
	assert.Equal(t, "Acme Tickets", partner.Name)
	assert.Equal(t, models.PartnerRolePartner, partner.Role)
	assert.Equal(t, created.KeyID, key.ID)

	require.NoError(t, svc.RevokeKey(ctx, created.KeyID))

	_, _, err = svc.VerifyKey(ctx, created.APIKey)
	assert.ErrorIs(t, err, models.ErrAPIKeyInvalid)
}

func TestVerifyKeyRejectsGarbage(t *testing.T) {
	svc := NewPartnerService(memory.NewPartnerStore(), testLogger())
	ctx := context.Background()

	_, _, err := svc.VerifyKey(ctx, "")
	assert.ErrorIs(t, err, models.ErrAPIKeyInvalid)

	_, _, err = svc.VerifyKey(ctx, "sp_definitelywrongkey1234567890ab")
	assert.ErrorIs(t, err, models.ErrAPIKeyInvalid)

	created, err := svc.CreatePartner(ctx, CreatePartnerRequest{
		Name:  "Acme Tickets",
		Email: "dev@acme.example",
	})
	require.NoError(t, err)

	// Same prefix, different tail
	wrong := created.APIKey[:11] + strings.Repeat("x", len(created.APIKey)-11)
	_, _, err = svc.VerifyKey(ctx, wrong)
	assert.ErrorIs(t, err, models.ErrAPIKeyInvalid)
}

func TestCreatePartnerDuplicateEmail(t *testing.T) {
	svc := NewPartnerService(memory.NewPartnerStore(), testLogger())
	ctx := context.Background()

	first, err := svc.CreatePartner(ctx, CreatePartnerRequest{
		Name:  "Acme Tickets",
		Email: "dev@acme.example",
	})
	require.NoError(t, err)
	// Role defaults to partner
	assert.Equal(t, models.PartnerRolePartner, first.Partner.Role)

	_, err = svc.CreatePartner(ctx, CreatePartnerRequest{
		Name:  "Acme Again",
		Email: "dev@acme.example",
	})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestRevokeUnknownKey(t *testing.T) {
	svc := NewPartnerService(memory.NewPartnerStore(), testLogger())

	err := svc.RevokeKey(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrAPIKeyInvalid)
}
