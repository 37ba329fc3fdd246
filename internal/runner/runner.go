package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"HomicideWatch/internal/collector"
	"HomicideWatch/internal/engine"
	"HomicideWatch/internal/history"
	"HomicideWatch/internal/model"
	"HomicideWatch/internal/recorder"
)

// Result is what one update check produced.
type Result struct {
	Outcome  engine.Outcome
	Messages []string
	Record   model.HistoricRecord
	Change   int
}

// Posted reports whether the run produced messages to deliver.
func (r *Result) Posted() bool { return r.Outcome == engine.Proceed }

// Runner wires fetch, parse, gate, narrative, and history append for a
// single invocation. "now" is read from the clock exactly once per
// run, so a run is deterministic under a fake clock.
type Runner struct {
	Fetcher     collector.Fetcher
	HistoryPath string
	Policy      engine.ComparisonPolicy
	Recorder    recorder.Recorder
	Clock       clockwork.Clock
}

// New creates a Runner. A nil clock means real time; a nil recorder
// means no audit log.
func New(fetcher collector.Fetcher, historyPath string, policy engine.ComparisonPolicy, rec recorder.Recorder, clock clockwork.Clock) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if policy == "" {
		policy = engine.PolicyDayAfter
	}
	return &Runner{
		Fetcher:     fetcher,
		HistoryPath: historyPath,
		Policy:      policy,
		Recorder:    rec,
		Clock:       clock,
	}
}

// Run executes one update check. A gate skip returns a Result with no
// messages and a nil error; all errors are unrecoverable within the
// run. When dryRun is set the history file is never touched.
func (r *Runner) Run(ctx context.Context, dryRun bool) (*Result, error) {
	now := r.Clock.Now()

	markup, err := r.Fetcher.FetchPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	snap, err := collector.ParseSnapshot(markup)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	log.Printf("[INFO] snapshot as of %s, ytd=%d", snap.AsOf.Format("2006-01-02"), snap.YTD())

	store, err := history.Open(r.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	latest, err := store.Latest()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	outcome := engine.Gate(snap, latest, now)
	if outcome != engine.Proceed {
		log.Printf("[INFO] skipping update: %s", outcome)
		r.record(now, snap, outcome, 0, dryRun)
		return &Result{Outcome: outcome}, nil
	}

	update, err := engine.Narrate(snap, latest, r.Policy)
	if err != nil {
		return nil, fmt.Errorf("build narrative: %w", err)
	}

	if !dryRun {
		if err := store.Append(update.Record); err != nil {
			return nil, fmt.Errorf("append history: %w", err)
		}
	}
	r.record(now, snap, outcome, update.Change, dryRun)

	return &Result{
		Outcome:  outcome,
		Messages: update.Messages,
		Record:   update.Record,
		Change:   update.Change,
	}, nil
}

func (r *Runner) record(now time.Time, snap *model.TableSnapshot, outcome engine.Outcome, change int, dryRun bool) {
	err := r.Recorder.RecordRun(&recorder.RunEvent{
		At:      now,
		AsOf:    snap.AsOf,
		Outcome: outcome.String(),
		Change:  change,
		YTD:     snap.YTD(),
		DryRun:  dryRun,
	})
	if err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}
