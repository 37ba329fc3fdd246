package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"HomicideWatch/internal/model"
)

func writeHistory(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "homicide_totals_daily.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen(t *testing.T) {
	path := writeHistory(t, "date,total\n2023-06-13,148\n2023-06-14,150\n")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", s.Len())
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Total != 150 {
		t.Errorf("expected latest total 150, got %d", latest.Total)
	}
	want := time.Date(2023, time.June, 14, 0, 0, 0, 0, time.UTC)
	if !latest.Date.Equal(want) {
		t.Errorf("expected latest date %s, got %s", want, latest.Date)
	}
}

func TestOpen_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing header", "2023-06-14,150\n"},
		{"wrong header", "day,count\n2023-06-14,150\n"},
		{"empty file", ""},
		{"extra column", "date,total\n2023-06-14,150,extra\n"},
		{"bad date", "date,total\nyesterday,150\n"},
		{"bad total", "date,total\n2023-06-14,many\n"},
		{"negative total", "date,total\n2023-06-14,-1\n"},
		{"out of order", "date,total\n2023-06-14,150\n2023-06-13,148\n"},
		{"duplicate date", "date,total\n2023-06-14,150\n2023-06-14,150\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(writeHistory(t, tt.content)); !errors.Is(err, ErrStorage) {
				t.Errorf("expected ErrStorage, got %v", err)
			}
		})
	}
}

func TestOpen_FileMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestLatest_EmptyHistory(t *testing.T) {
	s, err := Open(writeHistory(t, "date,total\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Latest(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("expected ErrEmptyHistory, got %v", err)
	}
}

func TestAppend_RoundTrip(t *testing.T) {
	path := writeHistory(t, "date,total\n2023-06-13,148\n2023-06-14,150\n")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := model.HistoricRecord{
		Date:  time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Total: 152,
	}
	if err := s.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	before := s.Records()
	reloaded, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	after := reloaded.Records()

	if len(after) != len(before) {
		t.Fatalf("expected %d records after reload, got %d", len(before), len(after))
	}
	for i := range before {
		if !before[i].Date.Equal(after[i].Date) || before[i].Total != after[i].Total {
			t.Errorf("record %d: expected %+v, got %+v", i, before[i], after[i])
		}
	}

	latest, err := reloaded.Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Total != 152 {
		t.Errorf("expected latest total 152, got %d", latest.Total)
	}
}

func TestAppend_LeavesNoTempFiles(t *testing.T) {
	// The rewrite goes through a temp file and a rename; after a
	// successful append only the history file itself remains.
	path := writeHistory(t, "date,total\n2023-06-14,150\n")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := model.HistoricRecord{
		Date:  time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Total: 152,
	}
	if err := s.Append(rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(path) {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("expected only the history file, got %v", names)
	}
}

func TestAppend_FailureKeepsExistingFile(t *testing.T) {
	// When the temp file cannot be created the original file must be
	// left exactly as it was.
	const content = "date,total\n2023-06-14,150\n"
	path := writeHistory(t, content)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// Retarget the store at a directory that does not exist so the
	// temp-file creation fails before anything is written.
	s.path = filepath.Join(filepath.Dir(path), "missing", "history.csv")

	rec := model.HistoricRecord{
		Date:  time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Total: 152,
	}
	if err := s.Append(rec); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("in-memory records changed on failed append: len=%d", s.Len())
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("original file changed on failed append:\n%s", got)
	}
}
