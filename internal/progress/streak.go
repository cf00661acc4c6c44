package progress

import "time"

// maxStreakDates bounds the audit trail of active days kept in the
// document.
const maxStreakDates = 30

// StreakState tracks consecutive calendar days with at least one
// completed task. Streaks are global across all learning modules.
type StreakState struct {
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	LastActivityDate DateKey   `json:"lastActivityDate,omitempty"`
	StreakDates      []DateKey `json:"streakDates,omitempty"`
}

// Advance returns the streak state after a completion event at now. The
// receiver is never modified. Repeated events on the same calendar day
// yield an equal state, so a busy day never inflates the streak.
func (s StreakState) Advance(now time.Time) StreakState {
	today := NewDateKey(now)
	if s.LastActivityDate == today {
		return s.clone()
	}

	next := s.clone()
	switch {
	case s.LastActivityDate != "" && s.LastActivityDate.Yesterday(now):
		next.CurrentStreak = s.CurrentStreak + 1
	case s.LastActivityDate != "":
		// A gap of two or more days breaks the streak; the date log
		// starts over with today.
		next.CurrentStreak = 1
		next.StreakDates = nil
	default:
		// First ever activity.
		next.CurrentStreak = 1
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastActivityDate = today

	if n := len(next.StreakDates); n == 0 || next.StreakDates[n-1] != today {
		next.StreakDates = append(next.StreakDates, today)
	}
	if len(next.StreakDates) > maxStreakDates {
		next.StreakDates = next.StreakDates[len(next.StreakDates)-maxStreakDates:]
	}

	return next
}

// Effective returns the state as it should be reported at now: if the
// last activity is older than yesterday the current streak reads as 0.
// This is a view only; the stored state keeps its value until the next
// completion event rewrites it.
func (s StreakState) Effective(now time.Time) StreakState {
	if s.LastActivityDate.SameDay(now) || s.LastActivityDate.Yesterday(now) {
		return s.clone()
	}
	lapsed := s.clone()
	lapsed.CurrentStreak = 0
	return lapsed
}

// AtRisk reports whether the streak lapses unless a task is completed
// before the end of today: the last activity was yesterday and nothing
// has been recorded yet today.
func (s StreakState) AtRisk(now time.Time) bool {
	return s.CurrentStreak > 0 && s.LastActivityDate.Yesterday(now)
}

func (s StreakState) clone() StreakState {
	c := s
	if s.StreakDates != nil {
		c.StreakDates = append([]DateKey(nil), s.StreakDates...)
	}
	return c
}
