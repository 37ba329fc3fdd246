package model

import "time"

// YearTotal pairs a header year with its year-to-date homicide count.
type YearTotal struct {
	Year  int
	Total int
}

// TableSnapshot is one parsed view of the published statistics table.
// YearTotals is ordered by descending recency: element 0 is the current
// year's YTD total, element 1 the same day-of-year total one year prior.
type TableSnapshot struct {
	AsOf       time.Time // calendar date the published row describes
	YearTotals []YearTotal
}

// YTD returns the current year's total.
func (s *TableSnapshot) YTD() int { return s.YearTotals[0].Total }
