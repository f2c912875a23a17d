package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/shared"
)

func setupCashbookTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&cashbook.CashEntry{}, &cashbook.Payment{})
	require.NoError(t, err)

	return db
}

func newTestOutflow(t *testing.T, amount, justification string, recordedAt time.Time) *cashbook.CashEntry {
	t.Helper()
	entry, err := cashbook.NewOutflow(mzn(t, amount), justification, "")
	require.NoError(t, err)
	entry.RecordedAt = recordedAt
	return entry
}

func TestGormCashEntryRepository(t *testing.T) {
	db := setupCashbookTestDB(t)
	repo := NewGormCashEntryRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	entries := []*cashbook.CashEntry{
		newTestOutflow(t, "300.00", "Combustivel gerador", base),
		newTestOutflow(t, "150.50", "Material de limpeza", base.AddDate(0, 0, 3)),
		newTestOutflow(t, "80.00", "Transporte", base.AddDate(0, 0, 6)),
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	t.Run("sums all entries with zero since", func(t *testing.T) {
		sum, err := repo.SumSince(ctx, cashbook.EntryOutflow, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, "530.50", sum.Amount().StringFixed(2))
	})

	t.Run("sums entries at or after the boundary", func(t *testing.T) {
		sum, err := repo.SumSince(ctx, cashbook.EntryOutflow, base.AddDate(0, 0, 3))
		require.NoError(t, err)
		assert.Equal(t, "230.50", sum.Amount().StringFixed(2))
	})

	t.Run("sum over empty window is zero", func(t *testing.T) {
		sum, err := repo.SumSince(ctx, cashbook.EntryOutflow, base.AddDate(0, 1, 0))
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("lists newest first within the window", func(t *testing.T) {
		found, err := repo.FindSince(ctx, cashbook.EntryOutflow, base.AddDate(0, 0, 1), shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Transporte", found[0].Justification)
		assert.Equal(t, "Material de limpeza", found[1].Justification)
	})
}

func TestGormPaymentRepository(t *testing.T) {
	db := setupCashbookTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	year := time.Now().Year()

	newPaymentAt := func(t *testing.T, amount string, paidAt time.Time) *cashbook.Payment {
		t.Helper()
		payment, err := cashbook.NewPayment(mzn(t, amount), cashbook.MethodCash, "")
		require.NoError(t, err)
		payment.PaidAt = paidAt
		return payment
	}

	t.Run("save assigns a code when missing", func(t *testing.T) {
		payment := newPaymentAt(t, "500.00", time.Now())
		require.NoError(t, repo.Save(ctx, payment))
		assert.Equal(t, fmt.Sprintf("PG-%d-00001", year), payment.Code)

		second := newPaymentAt(t, "250.00", time.Now())
		require.NoError(t, repo.Save(ctx, second))
		assert.Equal(t, fmt.Sprintf("PG-%d-00002", year), second.Code)
	})

	t.Run("save keeps an assigned code", func(t *testing.T) {
		payment := newPaymentAt(t, "100.00", time.Now())
		payment.Code = "PG-2020-00009"
		require.NoError(t, repo.Save(ctx, payment))
		assert.Equal(t, "PG-2020-00009", payment.Code)
	})

	t.Run("sums and lists within the window", func(t *testing.T) {
		repo := NewGormPaymentRepository(setupCashbookTestDB(t))

		base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
		old := newPaymentAt(t, "1000.00", base.AddDate(-1, 0, 0))
		recent := newPaymentAt(t, "600.00", base)
		require.NoError(t, repo.Save(ctx, old))
		require.NoError(t, repo.Save(ctx, recent))

		sum, err := repo.SumSince(ctx, base.AddDate(0, 0, -1))
		require.NoError(t, err)
		assert.Equal(t, "600.00", sum.Amount().StringFixed(2))

		found, err := repo.FindSince(ctx, base.AddDate(0, 0, -1), shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, recent.Code, found[0].Code)
	})
}
