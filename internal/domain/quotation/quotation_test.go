package quotation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

func makeLines(t *testing.T) []LineInput {
	t.Helper()
	return []LineInput{
		{
			ProductID:   uuid.New(),
			ProductCode: "gl001",
			ProductName: "Cadeira",
			Quantity:    2,
			UnitPrice:   valueobject.NewMoneyMZNFromFloat(450),
		},
		{
			ProductID:   uuid.New(),
			ProductCode: "gl002",
			ProductName: "Mesa",
			Quantity:    1,
			UnitPrice:   valueobject.NewMoneyMZNFromFloat(1200.50),
		},
	}
}

func TestNewQuotation(t *testing.T) {
	t.Run("creates draft with totals", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)

		assert.Equal(t, StatusDraft, q.Status)
		assert.Len(t, q.Items, 2)
		assert.Equal(t, "900.00", q.Items[0].LineTotal.StringFixed(2))
		assert.Equal(t, "2100.50", q.Total.StringFixed(2))
		assert.Nil(t, q.ConvertedSaleID)
		assert.Nil(t, q.ConvertedAt)
	})

	t.Run("rejects empty customer", func(t *testing.T) {
		_, err := NewQuotation("  ", makeLines(t))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewQuotation("Cliente A", nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive line quantity", func(t *testing.T) {
		lines := makeLines(t)
		lines[0].Quantity = 0
		_, err := NewQuotation("Cliente A", lines)
		assert.Error(t, err)
	})

	t.Run("rejects line without product", func(t *testing.T) {
		lines := makeLines(t)
		lines[1].ProductID = uuid.Nil
		_, err := NewQuotation("Cliente A", lines)
		assert.Error(t, err)
	})

	t.Run("emits created event", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)
		events := q.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeQuotationCreated, events[0].EventType())
	})
}

func TestQuotationUpdate(t *testing.T) {
	t.Run("replaces lines on draft", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)

		newLines := []LineInput{{
			ProductID:   uuid.New(),
			ProductCode: "gl003",
			ProductName: "Banco",
			Quantity:    3,
			UnitPrice:   valueobject.NewMoneyMZNFromFloat(100),
		}}
		require.NoError(t, q.Update("Cliente B", newLines))

		assert.Equal(t, "Cliente B", q.CustomerName)
		require.Len(t, q.Items, 1)
		assert.Equal(t, "300.00", q.Total.StringFixed(2))
	})

	t.Run("rejects update after conversion", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)
		require.NoError(t, q.Convert())

		err = q.Update("Cliente B", makeLines(t))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestQuotationConvert(t *testing.T) {
	t.Run("draft converts once", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)

		require.NoError(t, q.Convert())
		assert.Equal(t, StatusConverted, q.Status)
		require.NotNil(t, q.ConvertedAt)
	})

	t.Run("second conversion fails", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)
		require.NoError(t, q.Convert())

		err = q.Convert()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("emits converted event", func(t *testing.T) {
		q, err := NewQuotation("Cliente A", makeLines(t))
		require.NoError(t, err)
		q.ClearDomainEvents()

		require.NoError(t, q.Convert())
		events := q.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeQuotationConverted, events[0].EventType())
	})
}

func TestQuotationCanDelete(t *testing.T) {
	q, err := NewQuotation("Cliente A", makeLines(t))
	require.NoError(t, err)
	assert.NoError(t, q.CanDelete())

	require.NoError(t, q.Convert())
	assert.Error(t, q.CanDelete())
}

func TestQuotationLinkSale(t *testing.T) {
	q, err := NewQuotation("Cliente A", makeLines(t))
	require.NoError(t, err)

	t.Run("rejects link before conversion", func(t *testing.T) {
		assert.Error(t, q.LinkSale(uuid.New()))
	})

	t.Run("links after conversion", func(t *testing.T) {
		require.NoError(t, q.Convert())
		saleID := uuid.New()
		require.NoError(t, q.LinkSale(saleID))
		require.NotNil(t, q.ConvertedSaleID)
		assert.Equal(t, saleID, *q.ConvertedSaleID)
	})
}

func TestQuotationStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    QuotationStatus
		to      QuotationStatus
		allowed bool
	}{
		{"draft to converted", StatusDraft, StatusConverted, true},
		{"converted to draft", StatusConverted, StatusDraft, false},
		{"converted to converted", StatusConverted, StatusConverted, false},
		{"draft to draft", StatusDraft, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestQuotationStatusIsValid(t *testing.T) {
	assert.True(t, StatusDraft.IsValid())
	assert.True(t, StatusConverted.IsValid())
	assert.False(t, QuotationStatus("cancelled").IsValid())
}
