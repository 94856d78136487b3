package leavebalance

import (
	"time"

	leavebalanceerrors "go-sms/internal/leavebalance/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is one ledger row per (school, teacher, leave type, year).
// Every mutation must keep allocated == used + pending + available.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_key"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:uq_leave_balances_key"`

	Allocated      decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Used           decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Pending        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	Available      decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	CarriedForward decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Reserve moves days from available into pending when an application is
// submitted.
func (b *LeaveBalance) Reserve(days decimal.Decimal) error {
	b.Pending = b.Pending.Add(days)
	b.Available = b.Available.Sub(days)
	return b.check()
}

// Approve converts a reservation into consumed days.
func (b *LeaveBalance) Approve(days decimal.Decimal) error {
	b.Pending = b.Pending.Sub(days)
	b.Used = b.Used.Add(days)
	return b.check()
}

// Reject releases a reservation back to available.
func (b *LeaveBalance) Reject(days decimal.Decimal) error {
	b.Pending = b.Pending.Sub(days)
	b.Available = b.Available.Add(days)
	return b.check()
}

// Cancel returns previously consumed days to available.
func (b *LeaveBalance) Cancel(days decimal.Decimal) error {
	b.Used = b.Used.Sub(days)
	b.Available = b.Available.Add(days)
	return b.check()
}

func (b *LeaveBalance) check() error {
	if b.Used.IsNegative() || b.Pending.IsNegative() || b.Available.IsNegative() {
		return leavebalanceerrors.ErrLedgerCorrupt
	}
	sum := b.Used.Add(b.Pending).Add(b.Available)
	if !sum.Equal(b.Allocated) {
		return leavebalanceerrors.ErrLedgerCorrupt
	}
	return nil
}
