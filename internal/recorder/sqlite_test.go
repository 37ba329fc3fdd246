package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.db")

	r, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer r.Close()

	evt := &RunEvent{
		At:      time.Date(2023, time.June, 16, 10, 0, 0, 0, time.UTC),
		AsOf:    time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Outcome: "proceed",
		Change:  2,
		YTD:     152,
		DryRun:  false,
	}
	if err := r.RecordRun(evt); err != nil {
		t.Fatalf("record run: %v", err)
	}

	var outcome string
	var ytd, dry int
	row := r.db.QueryRow(`SELECT outcome, ytd, dry_run FROM run_log WHERE as_of = ?`, "2023-06-15")
	if err := row.Scan(&outcome, &ytd, &dry); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if outcome != "proceed" || ytd != 152 || dry != 0 {
		t.Errorf("unexpected row: outcome=%s ytd=%d dry=%d", outcome, ytd, dry)
	}
}
