// internal/clients/offers_test.go
package clients

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actn-dev/solpass-partner-api/internal/models"
)

func TestMockOfferInventoryDeterminism(t *testing.T) {
	inv := NewMockOfferInventory()
	ctx := context.Background()

	first, err := inv.Offers(ctx, "G5vYZb2n3xAta", 50, 150, "USD")
	require.NoError(t, err)
	second, err := inv.Offers(ctx, "G5vYZb2n3xAta", 50, 150, "USD")
	require.NoError(t, err)

	// The same event id always yields the same feed
	assert.Equal(t, first, second)

	other, err := inv.Offers(ctx, "Z7abcdef123456", 50, 150, "USD")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockOfferInventoryShape(t *testing.T) {
	inv := NewMockOfferInventory()

	offers, err := inv.Offers(context.Background(), "G5vYZb2n3xAta", 50, 150, "USD")
	require.NoError(t, err)
	require.Len(t, offers, 16)

	types := map[models.TicketType]int{}
	for i, offer := range offers {
		assert.Equal(t, fmt.Sprintf("G5vYZb2n3xAta-offer-%d", i+1), offer.OfferID)
		assert.NotEmpty(t, offer.Section)
		assert.Equal(t, "USD", offer.Currency)
		assert.GreaterOrEqual(t, offer.Price, 50*0.4)
		assert.GreaterOrEqual(t, offer.Available, 1)
		assert.LessOrEqual(t, offer.Available, offer.TotalCapacity)
		assert.Contains(t, offer.DeliveryMethods, "MOBILE_TRANSFER")
		types[offer.Type]++
	}

	assert.Equal(t, 9, types[models.TicketTypeStandard])
	assert.Equal(t, 2, types[models.TicketTypeVIP])
	assert.Equal(t, 2, types[models.TicketTypeAccessible])
	assert.Equal(t, 3, types[models.TicketTypeResale])

	// Resale listings are transfer-only; VIP adds will call
	for _, offer := range offers {
		switch offer.Type {
		case models.TicketTypeResale:
			assert.Equal(t, []string{"MOBILE_TRANSFER"}, offer.DeliveryMethods)
		case models.TicketTypeVIP:
			assert.Contains(t, offer.DeliveryMethods, "WILL_CALL")
		case models.TicketTypeAccessible:
			require.NotNil(t, offer.Restrictions)
		}
	}
}

func TestMockOfferInventoryZeroSpread(t *testing.T) {
	inv := NewMockOfferInventory()

	offers, err := inv.Offers(context.Background(), "G5vYZb2n3xAta", 80, 80, "USD")
	require.NoError(t, err)
	for _, offer := range offers {
		assert.GreaterOrEqual(t, offer.Price, 80*0.4)
	}
}
