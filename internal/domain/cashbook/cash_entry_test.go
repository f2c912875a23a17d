package cashbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

func TestNewOutflow(t *testing.T) {
	t.Run("creates justified outflow", func(t *testing.T) {
		entry, err := NewOutflow(valueobject.NewMoneyMZNFromFloat(500), "compra de material", "REQ-9")
		require.NoError(t, err)

		assert.Equal(t, EntryOutflow, entry.Type)
		assert.Equal(t, "compra de material", entry.Justification)
		assert.Equal(t, "REQ-9", entry.Reference)
		assert.False(t, entry.RecordedAt.IsZero())
	})

	t.Run("rejects blank justification", func(t *testing.T) {
		_, err := NewOutflow(valueobject.NewMoneyMZNFromFloat(500), "   ", "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects justification shorter than five characters", func(t *testing.T) {
		_, err := NewOutflow(valueobject.NewMoneyMZNFromFloat(5), "ok", "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)

		_, err = NewOutflow(valueobject.NewMoneyMZNFromFloat(5), "  velas  ", "")
		assert.NoError(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewOutflow(valueobject.ZeroMZN(), "material", "")
		assert.Error(t, err)
	})
}

func TestNewPayment(t *testing.T) {
	t.Run("creates payment without code", func(t *testing.T) {
		payment, err := NewPayment(valueobject.NewMoneyMZNFromFloat(1200), MethodCash, "venda ao balcao")
		require.NoError(t, err)

		assert.Empty(t, payment.Code)
		assert.Equal(t, MethodCash, payment.Method)
		assert.False(t, payment.PaidAt.IsZero())
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := NewPayment(valueobject.NewMoneyMZNFromFloat(10), PaymentMethod("cheque"), "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(valueobject.NewMoneyMZNFromFloat(-1), MethodCash, "")
		assert.Error(t, err)
	})
}

func TestTotalsNet(t *testing.T) {
	totals := Totals{
		Inflow:  valueobject.NewMoneyMZNFromFloat(1000),
		Outflow: valueobject.NewMoneyMZNFromFloat(350.50),
	}
	assert.Equal(t, "649.50", totals.Net().StringFixed(2))
}

func TestEntryTypeIsValid(t *testing.T) {
	assert.True(t, EntryOutflow.IsValid())
	assert.True(t, EntryInflow.IsValid())
	assert.False(t, EntryType("transfer").IsValid())
}

func TestPaymentMethodIsValid(t *testing.T) {
	for _, m := range []PaymentMethod{MethodCash, MethodCard, MethodTransfer, MethodMobile} {
		assert.True(t, m.IsValid())
	}
	assert.False(t, PaymentMethod("barter").IsValid())
}
