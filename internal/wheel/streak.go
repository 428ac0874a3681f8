package wheel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// utcDay truncates t to the start of its UTC calendar day.
func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayGap counts UTC calendar days from last to now.
func dayGap(last, now time.Time) int {
	return int(utcDay(now).Sub(utcDay(last)).Hours() / 24)
}

// NextFreeSpinAt is the first instant a free spin is allowed again.
func NextFreeSpinAt(w *catalog.Wheel, state domain.FreeSpinState, now time.Time) time.Time {
	if state.LastFreeSpinAt == nil {
		return now
	}
	next := utcDay(*state.LastFreeSpinAt).AddDate(0, 0, w.CooldownDays)
	if next.Before(now) {
		return now
	}
	return next
}

// claimFreeSpin returns the streak state after a free spin at now, or an
// AlreadyClaimedError while the cooldown runs. A gap of one extra day past
// the cooldown keeps the streak; anything longer restarts it at 1.
func claimFreeSpin(w *catalog.Wheel, state domain.FreeSpinState, now time.Time) (domain.FreeSpinState, error) {
	next := state
	at := now
	next.LastFreeSpinAt = &at

	if state.LastFreeSpinAt == nil {
		next.ConsecutiveDays = 1
		return next, nil
	}

	gap := dayGap(*state.LastFreeSpinAt, now)
	switch {
	case gap < w.CooldownDays:
		return state, &domain.AlreadyClaimedError{
			Action:          ActionFreeSpin,
			NextAvailableAt: NextFreeSpinAt(w, state, now),
		}
	case gap <= w.CooldownDays+1:
		next.ConsecutiveDays = max(state.ConsecutiveDays, 0) + 1
	default:
		next.ConsecutiveDays = 1
	}
	return next, nil
}

// StreakMultiplier is min(1 + step*(days-1), max).
func StreakMultiplier(w *catalog.Wheel, days int) decimal.Decimal {
	if days < 1 {
		days = 1
	}
	m := decimal.NewFromInt(1).Add(w.StreakStep.Mul(decimal.NewFromInt(int64(days - 1))))
	if m.GreaterThan(w.MaxMultiplier) {
		return w.MaxMultiplier
	}
	return m
}
