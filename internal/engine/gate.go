package engine

import (
	"time"

	"HomicideWatch/internal/holiday"
	"HomicideWatch/internal/model"
)

// Outcome is the gate's decision for one snapshot.
type Outcome int

const (
	Proceed Outcome = iota
	SkipWeekend
	SkipHoliday
	SkipStale
)

func (o Outcome) String() string {
	switch o {
	case Proceed:
		return "proceed"
	case SkipWeekend:
		return "weekend"
	case SkipHoliday:
		return "holiday"
	case SkipStale:
		return "stale"
	}
	return "unknown"
}

// Gate decides whether a snapshot should produce a postable update.
// The order is significant: the weekend and holiday checks run before
// the already-seen check, so a weekend snapshot that looks new by date
// alone is still suppressed. Skips are normal outcomes, not errors.
//
// Friday and Saturday as-of dates are dropped because the source
// publishes stale placeholder rows on those two weekdays. The holiday
// check is against today's date, taken from now.
func Gate(snap *model.TableSnapshot, latest model.HistoricRecord, now time.Time) Outcome {
	switch snap.AsOf.Weekday() {
	case time.Friday, time.Saturday:
		return SkipWeekend
	}
	if holiday.Contains(holiday.NoPostDays(now.Year()), now) {
		return SkipHoliday
	}
	if !civil(snap.AsOf).After(civil(latest.Date)) {
		return SkipStale
	}
	return Proceed
}

// civil truncates a timestamp to its calendar date. The history file
// stores bare dates, so all day-boundary comparisons happen at this
// granularity.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
