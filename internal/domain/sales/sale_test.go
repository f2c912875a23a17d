package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

func saleLines() []SaleLineInput {
	return []SaleLineInput{
		{
			ProductID:   uuid.New(),
			ProductCode: "gm001",
			ProductName: "Arroz",
			Quantity:    3,
			UnitPrice:   valueobject.NewMoneyMZNFromFloat(120),
		},
		{
			ProductID:   uuid.New(),
			ProductCode: "gm002",
			ProductName: "Oleo",
			Quantity:    2,
			UnitPrice:   valueobject.NewMoneyMZNFromFloat(85.25),
		},
	}
}

func TestNewSale(t *testing.T) {
	t.Run("builds sale with item and total amounts", func(t *testing.T) {
		sale, err := NewSale(saleLines(), nil)
		require.NoError(t, err)

		require.Len(t, sale.Items, 2)
		assert.Equal(t, "360.00", sale.Items[0].LineTotal.StringFixed(2))
		assert.Equal(t, "170.50", sale.Items[1].LineTotal.StringFixed(2))
		assert.Equal(t, "530.50", sale.Total.StringFixed(2))
		assert.Nil(t, sale.QuotationID)
		assert.False(t, sale.SoldAt.IsZero())
	})

	t.Run("links items to the sale", func(t *testing.T) {
		sale, err := NewSale(saleLines(), nil)
		require.NoError(t, err)
		for _, item := range sale.Items {
			assert.Equal(t, sale.ID, item.SaleID)
		}
	})

	t.Run("keeps quotation reference", func(t *testing.T) {
		quotationID := uuid.New()
		sale, err := NewSale(saleLines(), &quotationID)
		require.NoError(t, err)
		require.NotNil(t, sale.QuotationID)
		assert.Equal(t, quotationID, *sale.QuotationID)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewSale(nil, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		assert.Contains(t, err.Error(), "cart is empty")
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		lines := saleLines()
		lines[0].Quantity = 0
		_, err := NewSale(lines, nil)
		assert.Error(t, err)
	})

	t.Run("emits finalized event", func(t *testing.T) {
		sale, err := NewSale(saleLines(), nil)
		require.NoError(t, err)

		events := sale.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSaleFinalized, events[0].EventType())
	})
}
