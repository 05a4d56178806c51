package reconcile

import "time"

// Calendar answers business-day questions for the diffusion deadline:
// weekends and the configured holidays do not count. The holiday list is a
// configuration input, never hardcoded.
type Calendar struct {
	holidays map[string]struct{}
}

func NewCalendar(holidays []time.Time) *Calendar {
	c := &Calendar{holidays: make(map[string]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[dayKey(h)] = struct{}{}
	}
	return c
}

func (c *Calendar) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[dayKey(t)]
	return !holiday
}

// BusinessDaysBetween counts the business days strictly after `from` up to
// and including `to`. Same calendar day, or `to` before `from`, yields 0.
func (c *Calendar) BusinessDaysBetween(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if !to.After(from) {
		return 0
	}

	days := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			days++
		}
	}
	return days
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween is the signed whole-day difference between two timestamps,
// comparing calendar days rather than elapsed hours.
func daysBetween(from, to time.Time) int {
	return int(truncateDay(to).Sub(truncateDay(from)).Hours() / 24)
}
