package coderule

import (
	"time"

	"sequor/internal/shared/biztime"
)

// ResetCycle determines when a rule's sequence counter restarts at 1.
type ResetCycle string

const (
	ResetCycleNone    ResetCycle = "NONE"
	ResetCycleDaily   ResetCycle = "DAILY"
	ResetCycleMonthly ResetCycle = "MONTHLY"
	ResetCycleYearly  ResetCycle = "YEARLY"
)

// PeriodKeyNone is the constant period key for rules that never reset.
const PeriodKeyNone = "*"

// IsValid reports whether the reset cycle is one of the known values.
func (c ResetCycle) IsValid() bool {
	switch c {
	case ResetCycleNone, ResetCycleDaily, ResetCycleMonthly, ResetCycleYearly:
		return true
	default:
		return false
	}
}

func (c ResetCycle) String() string {
	return string(c)
}

// PeriodKey maps a reset cycle and an instant to the key of the reset window
// the instant falls into. Two instants share a key exactly when they belong to
// the same window. Date boundaries are evaluated in the business timezone.
func PeriodKey(cycle ResetCycle, t time.Time) string {
	bizTime := biztime.ToBizTimezone(t)
	switch cycle {
	case ResetCycleDaily:
		return bizTime.Format("2006-01-02")
	case ResetCycleMonthly:
		return bizTime.Format("2006-01")
	case ResetCycleYearly:
		return bizTime.Format("2006")
	default:
		return PeriodKeyNone
	}
}
