package holiday

import "time"

// Calendar returns the full Pennsylvania holiday calendar for a year,
// keyed by name. Dates are the actual holidays, not shifted weekday
// observances.
func Calendar(year int) map[string]time.Time {
	return map[string]time.Time{
		"New Year's Day":                       civil(year, time.January, 1),
		"Martin Luther King Jr. Day":           nthWeekday(year, time.January, time.Monday, 3),
		"Washington's Birthday":                nthWeekday(year, time.February, time.Monday, 3),
		"Good Friday":                          Easter(year).AddDate(0, 0, -2),
		"Memorial Day":                         lastWeekday(year, time.May, time.Monday),
		"Flag Day":                             civil(year, time.June, 14),
		"Juneteenth National Independence Day": civil(year, time.June, 19),
		"Independence Day":                     civil(year, time.July, 4),
		"Labor Day":                            nthWeekday(year, time.September, time.Monday, 1),
		"Columbus Day":                         nthWeekday(year, time.October, time.Monday, 2),
		"Election Day":                         electionDay(year),
		"Veterans Day":                         civil(year, time.November, 11),
		"Thanksgiving":                         nthWeekday(year, time.November, time.Thursday, 4),
		"Christmas Day":                        civil(year, time.December, 25),
	}
}

// observedNames is the subset of the regional calendar on which the
// statistics page is not refreshed. Deliberately narrower than the
// full calendar: Flag Day and Election Day do not suppress updates.
var observedNames = []string{
	"New Year's Day",
	"Martin Luther King Jr. Day",
	"Washington's Birthday",
	"Memorial Day",
	"Juneteenth National Independence Day",
	"Independence Day",
	"Labor Day",
	"Columbus Day",
	"Veterans Day",
	"Thanksgiving",
	"Christmas Day",
}

// NoPostDays returns the dates on which an update must not be posted:
// the observed-holiday allow-list intersected with the full calendar,
// plus Good Friday.
func NoPostDays(year int) map[string]time.Time {
	full := Calendar(year)
	h := make(map[string]time.Time, len(observedNames)+1)
	for _, name := range observedNames {
		if d, ok := full[name]; ok {
			h[name] = d
		}
	}
	h["Good Friday"] = Easter(year).AddDate(0, 0, -2)
	return h
}

// Contains reports whether day falls on any holiday in the set,
// comparing calendar dates only.
func Contains(set map[string]time.Time, day time.Time) bool {
	y, m, d := day.Date()
	for _, h := range set {
		hy, hm, hd := h.Date()
		if y == hy && m == hm && d == hd {
			return true
		}
	}
	return false
}

// Easter computes Gregorian Easter Sunday using the anonymous computus.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nthWeekday returns the n-th weekday of a month (n starts at 1).
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	first := civil(year, month, 1)
	offset := (int(wd) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last weekday of a month.
func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	last := civil(year, month+1, 1).AddDate(0, 0, -1)
	offset := (int(last.Weekday()) - int(wd) + 7) % 7
	return last.AddDate(0, 0, -offset)
}

// electionDay is the first Tuesday after the first Monday of November.
func electionDay(year int) time.Time {
	return nthWeekday(year, time.November, time.Monday, 1).AddDate(0, 0, 1)
}
