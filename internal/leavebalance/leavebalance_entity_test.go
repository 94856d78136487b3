package leavebalance_test

import (
	"testing"

	"go-sms/internal/leavebalance"
	leavebalanceerrors "go-sms/internal/leavebalance/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ledger(allocated int64) *leavebalance.LeaveBalance {
	a := decimal.NewFromInt(allocated)
	return &leavebalance.LeaveBalance{
		Allocated: a,
		Used:      decimal.Zero,
		Pending:   decimal.Zero,
		Available: a,
	}
}

func assertConserved(t *testing.T, b *leavebalance.LeaveBalance) {
	t.Helper()
	sum := b.Used.Add(b.Pending).Add(b.Available)
	assert.True(t, sum.Equal(b.Allocated), "used+pending+available=%s allocated=%s", sum, b.Allocated)
}

func TestLeaveBalance_Movements(t *testing.T) {
	days := decimal.NewFromInt(3)

	t.Run("reserve then approve", func(t *testing.T) {
		b := ledger(12)
		assert.NoError(t, b.Reserve(days))
		assert.Equal(t, "3", b.Pending.String())
		assert.Equal(t, "9", b.Available.String())
		assertConserved(t, b)

		assert.NoError(t, b.Approve(days))
		assert.Equal(t, "3", b.Used.String())
		assert.True(t, b.Pending.IsZero())
		assertConserved(t, b)
	})

	t.Run("reserve then reject restores available", func(t *testing.T) {
		b := ledger(12)
		assert.NoError(t, b.Reserve(days))
		assert.NoError(t, b.Reject(days))
		assert.True(t, b.Pending.IsZero())
		assert.True(t, b.Used.IsZero())
		assert.Equal(t, "12", b.Available.String())
		assertConserved(t, b)
	})

	t.Run("cancel returns used days", func(t *testing.T) {
		b := ledger(12)
		assert.NoError(t, b.Reserve(days))
		assert.NoError(t, b.Approve(days))
		assert.NoError(t, b.Cancel(days))
		assert.True(t, b.Used.IsZero())
		assert.Equal(t, "12", b.Available.String())
		assertConserved(t, b)
	})

	t.Run("half day movements", func(t *testing.T) {
		half := decimal.RequireFromString("0.5")
		b := ledger(12)
		assert.NoError(t, b.Reserve(half))
		assert.Equal(t, "0.5", b.Pending.String())
		assert.Equal(t, "11.5", b.Available.String())
		assertConserved(t, b)
	})

	t.Run("over-reserving corrupts and is refused", func(t *testing.T) {
		b := ledger(2)
		err := b.Reserve(decimal.NewFromInt(3))
		assert.ErrorIs(t, err, leavebalanceerrors.ErrLedgerCorrupt)
	})

	t.Run("approve without reservation is refused", func(t *testing.T) {
		b := ledger(12)
		err := b.Approve(days)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrLedgerCorrupt)
	})
}
