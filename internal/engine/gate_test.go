package engine

import (
	"testing"
	"time"

	"HomicideWatch/internal/model"
)

func snapshotFor(asOf time.Time, ytd int) *model.TableSnapshot {
	return &model.TableSnapshot{
		AsOf: asOf,
		YearTotals: []model.YearTotal{
			{Year: asOf.Year(), Total: ytd},
			{Year: asOf.Year() - 1, Total: 140},
		},
	}
}

func TestGate(t *testing.T) {
	latest := model.HistoricRecord{
		Date:  time.Date(2023, time.June, 14, 0, 0, 0, 0, time.UTC),
		Total: 150,
	}
	weekday := time.Date(2023, time.June, 16, 10, 0, 0, 0, time.UTC) // ordinary Friday run date

	tests := []struct {
		name string
		asOf time.Time
		now  time.Time
		want Outcome
	}{
		{
			"new thursday snapshot proceeds",
			time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
			weekday,
			Proceed,
		},
		{
			"friday as-of date skips",
			time.Date(2023, time.June, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2023, time.June, 17, 10, 0, 0, 0, time.UTC),
			SkipWeekend,
		},
		{
			"saturday as-of date skips",
			time.Date(2023, time.June, 17, 0, 0, 0, 0, time.UTC),
			time.Date(2023, time.June, 18, 10, 0, 0, 0, time.UTC),
			SkipWeekend,
		},
		{
			"holiday run date skips",
			time.Date(2023, time.July, 3, 0, 0, 0, 0, time.UTC), // Monday
			time.Date(2023, time.July, 4, 10, 0, 0, 0, time.UTC),
			SkipHoliday,
		},
		{
			"as-of equal to latest skips",
			time.Date(2023, time.June, 14, 0, 0, 0, 0, time.UTC),
			weekday,
			SkipStale,
		},
		{
			"as-of before latest skips",
			time.Date(2023, time.June, 13, 0, 0, 0, 0, time.UTC),
			weekday,
			SkipStale,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gate(snapshotFor(tt.asOf, 152), latest, tt.now)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGate_WeekendBeatsStaleCheck(t *testing.T) {
	// A Friday as-of date looks new versus history but must still be
	// suppressed.
	latest := model.HistoricRecord{
		Date:  time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		Total: 130,
	}
	asOf := time.Date(2023, time.June, 16, 0, 0, 0, 0, time.UTC) // Friday
	now := time.Date(2023, time.June, 17, 10, 0, 0, 0, time.UTC)

	if got := Gate(snapshotFor(asOf, 152), latest, now); got != SkipWeekend {
		t.Errorf("expected SkipWeekend, got %s", got)
	}
}

func TestGate_HolidayBeatsStaleCheck(t *testing.T) {
	latest := model.HistoricRecord{
		Date:  time.Date(2023, time.November, 23, 0, 0, 0, 0, time.UTC),
		Total: 150,
	}
	asOf := time.Date(2023, time.November, 22, 0, 0, 0, 0, time.UTC) // Wednesday, already stale
	now := time.Date(2023, time.November, 23, 10, 0, 0, 0, time.UTC) // Thanksgiving

	if got := Gate(snapshotFor(asOf, 152), latest, now); got != SkipHoliday {
		t.Errorf("expected SkipHoliday, got %s", got)
	}
}
