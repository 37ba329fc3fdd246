package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"HomicideWatch/internal/model"
)

// ErrZeroBaseline means the prior year's same-day total is zero, so no
// year-over-year rate can be stated.
var ErrZeroBaseline = errors.New("prior year total is zero, year-over-year rate undefined")

// ComparisonPolicy selects how the gap back to the last recorded
// observation is phrased.
type ComparisonPolicy string

const (
	// PolicyDayAfter phrases a multi-day gap as "since {the day after
	// the last recorded date}". This is the canonical policy.
	PolicyDayAfter ComparisonPolicy = "day-after"
	// PolicyFridayOnSunday phrases a Sunday as-of date as "since {the
	// preceding Friday}", matching a source cadence that skips the
	// Friday and Saturday rows entirely.
	PolicyFridayOnSunday ComparisonPolicy = "friday-on-sunday"
)

const dateFormat = "Monday Jan. 2, 2006"

// Update is the narrative output for one new observation.
type Update struct {
	Messages []string
	Record   model.HistoricRecord
	Change   int
}

// Narrate renders the two status messages for a snapshot the gate has
// already passed, and builds the record the caller should persist. It
// never writes storage itself.
func Narrate(snap *model.TableSnapshot, latest model.HistoricRecord, policy ComparisonPolicy) (*Update, error) {
	ytd := snap.YTD()
	change := ytd - latest.Total
	asOf := civil(snap.AsOf)
	fdate := asOf.Format(dateFormat)

	phrase := comparisonPhrase(asOf, civil(latest.Date), policy, fdate)

	var first string
	switch {
	case change == 1:
		first = fmt.Sprintf("There was one new homicide in Philadelphia %s.", phrase)
	case change > 1:
		first = fmt.Sprintf("There were %d new homicides in Philadelphia %s.", change, phrase)
	default:
		first = fmt.Sprintf("There were no new homicides in Philadelphia %s.", phrase)
	}

	second := fmt.Sprintf("As of 11:59 PM on %s, there have been %d homicides in Philadelphia,", fdate, ytd)

	lastYear := snap.YearTotals[1]
	if lastYear.Total == 0 {
		return nil, fmt.Errorf("%w (%d)", ErrZeroBaseline, lastYear.Year)
	}
	percent := 100 * (float64(ytd)/float64(lastYear.Total) - 1)
	switch {
	case percent > 0:
		second += fmt.Sprintf(" an increase of %.0f%% from %d.", math.Round(percent), lastYear.Year)
	case percent == 0:
		second += fmt.Sprintf(" equal to the rate from %d.", lastYear.Year)
	default:
		second += fmt.Sprintf(" a decrease of %.0f%% from %d.", math.Round(math.Abs(percent)), lastYear.Year)
	}

	return &Update{
		Messages: []string{first, second},
		Record:   model.HistoricRecord{Date: asOf, Total: ytd},
		Change:   change,
	}, nil
}

func comparisonPhrase(asOf, lastDate time.Time, policy ComparisonPolicy, fdate string) string {
	if policy == PolicyFridayOnSunday && asOf.Weekday() == time.Sunday {
		return "since " + asOf.AddDate(0, 0, -2).Format(dateFormat)
	}
	next := lastDate.AddDate(0, 0, 1)
	if next.Equal(asOf) {
		return "on " + fdate
	}
	return "since " + next.Format(dateFormat)
}
