package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	MZN Currency = "MZN" // Mozambican Metical (default)
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	ZAR Currency = "ZAR" // South African Rand
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = MZN

// Money is a value object representing monetary amounts.
// It is immutable - all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{
		amount:   amount,
		currency: currency,
	}, nil
}

// NewMoneyFromFloat creates Money from a float64 value
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string representation
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d, currency)
}

// NewMoneyMZN creates Money in MZN (Mozambican Metical)
func NewMoneyMZN(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: MZN}
}

// NewMoneyMZNFromFloat creates Money in MZN from float64
func NewMoneyMZNFromFloat(amount float64) Money {
	return Money{amount: decimal.NewFromFloat(amount), currency: MZN}
}

// NewMoneyMZNFromString creates Money in MZN from string
func NewMoneyMZNFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return Money{amount: d, currency: MZN}, nil
}

// Zero returns a zero-value Money in the specified currency
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// ZeroMZN returns a zero-value Money in MZN
func ZeroMZN() Money {
	return Zero(MZN)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive returns true if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative returns true if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns a new Money with the sum of both amounts.
// Returns error if currencies don't match.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot add money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Add(other.amount),
		currency: m.currency,
	}, nil
}

// MustAdd adds two Money values, panics if currencies don't match
func (m Money) MustAdd(other Money) Money {
	result, err := m.Add(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Subtract returns a new Money with the difference.
// Returns error if currencies don't match.
func (m Money) Subtract(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("cannot subtract money with different currencies: %s and %s", m.currency, other.currency)
	}
	return Money{
		amount:   m.amount.Sub(other.amount),
		currency: m.currency,
	}, nil
}

// MustSubtract subtracts two Money values, panics if currencies don't match
func (m Money) MustSubtract(other Money) Money {
	result, err := m.Subtract(other)
	if err != nil {
		panic(err)
	}
	return result
}

// Multiply returns a new Money multiplied by the given factor
func (m Money) Multiply(factor decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(factor),
		currency: m.currency,
	}
}

// MultiplyByInt returns a new Money multiplied by an integer
func (m Money) MultiplyByInt(factor int64) Money {
	return m.Multiply(decimal.NewFromInt(factor))
}

// Divide returns a new Money divided by the given divisor.
// Returns error if divisor is zero.
func (m Money) Divide(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("cannot divide by zero")
	}
	return Money{
		amount:   m.amount.Div(divisor),
		currency: m.currency,
	}, nil
}

// Round returns a new Money rounded to the specified decimal places
func (m Money) Round(places int32) Money {
	return Money{
		amount:   m.amount.Round(places),
		currency: m.currency,
	}
}

// Equals returns true if both Money values are equal (same amount and currency)
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// LessThan returns true if this Money is less than the other.
// Returns error if currencies don't match.
func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.LessThan(other.amount), nil
}

// GreaterThan returns true if this Money is greater than the other
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.GreaterThan(other.amount), nil
}

// GreaterThanOrEqual returns true if this Money is greater than or equal to the other
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, fmt.Errorf("cannot compare money with different currencies: %s and %s", m.currency, other.currency)
	}
	return m.amount.GreaterThanOrEqual(other.amount), nil
}

// String returns a string representation of the Money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}

// StringFixed returns the amount as a string with fixed decimal places
func (m Money) StringFixed(places int32) string {
	return m.amount.StringFixed(places)
}

// Float64 returns the amount as a float64 (may lose precision)
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// MarshalJSON implements json.Marshaler
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}{
		Amount:   m.amount.String(),
		Currency: m.currency,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(data []byte) error {
	var v struct {
		Amount   string   `json:"amount"`
		Currency Currency `json:"currency"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	m.amount = amount
	m.currency = v.Currency
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}

// Value implements driver.Valuer for database storage.
// Stores as a numeric value (amount only).
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner for database retrieval.
// Scans only the amount; currency defaults to DefaultCurrency if not already set.
func (m *Money) Scan(value any) error {
	if value == nil {
		m.amount = decimal.Zero
		m.currency = DefaultCurrency
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	case float64:
		m.amount = decimal.NewFromFloat(v)
		if m.currency == "" {
			m.currency = DefaultCurrency
		}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}

	amount, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	m.amount = amount
	if m.currency == "" {
		m.currency = DefaultCurrency
	}
	return nil
}
