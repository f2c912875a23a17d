package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), MZN)
		require.NoError(t, err)
		assert.Equal(t, MZN, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	m, err := NewMoneyFromFloat(99.99, USD)
	require.NoError(t, err)
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", MZN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", MZN)
		assert.Error(t, err)
	})
}

func TestNewMoneyMZN(t *testing.T) {
	m := NewMoneyMZN(decimal.NewFromFloat(50.00))
	assert.Equal(t, MZN, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestNewMoneyMZNFromFloat(t *testing.T) {
	m := NewMoneyMZNFromFloat(75.50)
	assert.Equal(t, MZN, m.Currency())
	assert.Equal(t, 75.5, m.Float64())
}

func TestNewMoneyMZNFromString(t *testing.T) {
	m, err := NewMoneyMZNFromString("199.99")
	require.NoError(t, err)
	assert.Equal(t, MZN, m.Currency())

	_, err = NewMoneyMZNFromString("bad")
	assert.Error(t, err)
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestZeroMZN(t *testing.T) {
	m := ZeroMZN()
	assert.True(t, m.IsZero())
	assert.Equal(t, MZN, m.Currency())
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, NewMoneyMZNFromFloat(10).IsPositive())
	assert.True(t, NewMoneyMZNFromFloat(-10).IsNegative())
	assert.True(t, ZeroMZN().IsZero())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyMZNFromFloat(100.25)
		b := NewMoneyMZNFromFloat(50.75)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(151.00)))
	})

	t.Run("rejects different currencies", func(t *testing.T) {
		a := NewMoneyMZNFromFloat(100)
		b, _ := NewMoneyFromFloat(50, USD)
		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoneyMustAdd(t *testing.T) {
	t.Run("returns sum for same currency", func(t *testing.T) {
		sum := NewMoneyMZNFromFloat(1).MustAdd(NewMoneyMZNFromFloat(2))
		assert.Equal(t, 3.0, sum.Float64())
	})

	t.Run("panics on currency mismatch", func(t *testing.T) {
		usd, _ := NewMoneyFromFloat(1, USD)
		assert.Panics(t, func() {
			NewMoneyMZNFromFloat(1).MustAdd(usd)
		})
	})
}

func TestMoneySubtract(t *testing.T) {
	a := NewMoneyMZNFromFloat(100)
	b := NewMoneyMZNFromFloat(30.50)
	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(69.50)))

	usd, _ := NewMoneyFromFloat(1, USD)
	_, err = a.Subtract(usd)
	assert.Error(t, err)
}

func TestMoneyMultiply(t *testing.T) {
	m := NewMoneyMZNFromFloat(12.50)
	result := m.MultiplyByInt(4)
	assert.True(t, result.Amount().Equal(decimal.NewFromFloat(50.00)))
}

func TestMoneyDivide(t *testing.T) {
	t.Run("divides by non-zero", func(t *testing.T) {
		m := NewMoneyMZNFromFloat(100)
		result, err := m.Divide(decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(25)))
	})

	t.Run("rejects zero divisor", func(t *testing.T) {
		m := NewMoneyMZNFromFloat(100)
		_, err := m.Divide(decimal.Zero)
		assert.Error(t, err)
	})
}

func TestMoneyRound(t *testing.T) {
	m := NewMoneyMZNFromFloat(10.005)
	assert.Equal(t, "10.01", m.Round(2).StringFixed(2))
}

func TestMoneyComparisons(t *testing.T) {
	a := NewMoneyMZNFromFloat(10)
	b := NewMoneyMZNFromFloat(20)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	gte, err := a.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	usd, _ := NewMoneyFromFloat(10, USD)
	_, err = a.LessThan(usd)
	assert.Error(t, err)
}

func TestMoneyEquals(t *testing.T) {
	a := NewMoneyMZNFromFloat(10)
	b := NewMoneyMZNFromFloat(10)
	c, _ := NewMoneyFromFloat(10, USD)
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyMZNFromFloat(1234.5)
	assert.Equal(t, "1234.50 MZN", m.String())
	assert.Equal(t, "1234.500", m.StringFixed(3))
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshal and unmarshal round trip", func(t *testing.T) {
		m := NewMoneyMZNFromFloat(99.95)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("unmarshal defaults empty currency", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"5.00"}`), &m))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("unmarshal rejects invalid amount", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`{"amount":"x","currency":"MZN"}`), &m))
	})
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.35"))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.35)))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans byte slice", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan([]byte("7.00")))
		assert.Equal(t, 7.0, m.Float64())
	})

	t.Run("scans float value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(12.5))
		assert.Equal(t, 12.5, m.Float64())
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(true))
	})
}

func TestMoneyValue(t *testing.T) {
	m := NewMoneyMZNFromFloat(15.75)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "15.75", v)
}
