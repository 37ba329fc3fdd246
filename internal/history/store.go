package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"HomicideWatch/internal/model"
)

var (
	ErrStorage      = errors.New("history file unreadable or malformed")
	ErrEmptyHistory = errors.New("history has no records")
)

const dateLayout = "2006-01-02"

// Store owns the durable log of daily observations for one run.
// Append rewrites the whole file, so concurrent runs must be prevented
// by the caller's scheduler.
type Store struct {
	path    string
	records []model.HistoricRecord
}

// Open loads the full history from the CSV file at path. Rows must be
// `date,total` with ISO calendar dates in strictly ascending order and
// non-negative totals.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if len(rows) == 0 || len(rows[0]) != 2 || rows[0][0] != "date" || rows[0][1] != "total" {
		return nil, fmt.Errorf("%w: missing date,total header", ErrStorage)
	}

	records := make([]model.HistoricRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		date, err := time.Parse(dateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: bad date %q", ErrStorage, i+1, row[0])
		}
		total, err := strconv.Atoi(row[1])
		if err != nil || total < 0 {
			return nil, fmt.Errorf("%w: row %d: bad total %q", ErrStorage, i+1, row[1])
		}
		if n := len(records); n > 0 && !date.After(records[n-1].Date) {
			return nil, fmt.Errorf("%w: row %d: dates out of order", ErrStorage, i+1)
		}
		records = append(records, model.HistoricRecord{Date: date, Total: total})
	}
	return &Store{path: path, records: records}, nil
}

// Latest returns the most recent observation.
func (s *Store) Latest() (model.HistoricRecord, error) {
	if len(s.records) == 0 {
		return model.HistoricRecord{}, ErrEmptyHistory
	}
	return s.records[len(s.records)-1], nil
}

// Len returns the number of loaded records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the loaded sequence.
func (s *Store) Records() []model.HistoricRecord {
	out := make([]model.HistoricRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Append adds one record and persists the entire sequence back. The
// rewrite goes through a temp file in the same directory and a rename,
// so a crash mid-write leaves the previous file intact. Single writer
// only.
func (s *Store) Append(rec model.HistoricRecord) error {
	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	tmp := f.Name()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"date", "total"})
	for _, r := range s.records {
		_ = w.Write([]string{r.Date.Format(dateLayout), strconv.Itoa(r.Total)})
	}
	_ = w.Write([]string{rec.Date.Format(dateLayout), strconv.Itoa(rec.Total)})
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.records = append(s.records, rec)
	return nil
}
