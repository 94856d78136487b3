package leave

import (
	"time"

	leaveerrors "go-sms/internal/leave/errors"

	"github.com/shopspring/decimal"
)

var halfDay = decimal.NewFromFloat(0.5)

// CalculateDays returns the chargeable day count for a leave period.
// Half-day types count 0.5 and must start and end on the same date.
// Full-day periods are counted inclusively, skipping Saturdays and
// Sundays unless includeWeekends is set.
func CalculateDays(start, end time.Time, dayType string, includeWeekends bool) (decimal.Decimal, error) {
	if start.After(end) {
		return decimal.Zero, leaveerrors.ErrInvalidDateRange
	}

	switch dayType {
	case DayTypeFirstHalf, DayTypeSecondHalf:
		if !start.Equal(end) {
			return decimal.Zero, leaveerrors.ErrHalfDayRange
		}
		return halfDay, nil
	case DayTypeFull, "":
	default:
		return decimal.Zero, leaveerrors.ErrInvalidDayType
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !includeWeekends {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}
		}
		days++
	}

	return decimal.NewFromInt(int64(days)), nil
}

// clipToMonth bounds a leave period to the given month, returning the
// zero range when there is no intersection.
func clipToMonth(start, end time.Time, month, year int) (time.Time, time.Time, bool) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	if end.Before(monthStart) || start.After(monthEnd) {
		return time.Time{}, time.Time{}, false
	}
	if start.Before(monthStart) {
		start = monthStart
	}
	if end.After(monthEnd) {
		end = monthEnd
	}
	return start, end, true
}
