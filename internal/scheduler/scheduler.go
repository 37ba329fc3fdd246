package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"HomicideWatch/internal/notifier"
	"HomicideWatch/internal/runner"
)

// Scheduler triggers the daily update check via cron. The cron spec
// must never overlap runs: the history store performs an unlocked
// read-modify-overwrite.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *runner.Runner
	Notifier *notifier.TwitterNotifier
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r *runner.Runner, tn *notifier.TwitterNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   r,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register adds the daily update task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.updateTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the update task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.updateTask()
}

func (s *Scheduler) updateTask() {
	log.Println("[INFO] running update check")
	res, err := s.Runner.Run(s.Ctx, false)
	if err != nil {
		log.Printf("[ERROR] update check: %v", err)
		return
	}
	if !res.Posted() {
		log.Printf("[INFO] nothing to post: %s", res.Outcome)
		return
	}

	for _, msg := range res.Messages {
		log.Printf("[INFO] %s", msg)
	}
	ids, err := s.Notifier.PostThread(s.Ctx, res.Messages)
	if err != nil {
		log.Printf("[ERROR] post thread (%d statuses went out): %v", len(ids), err)
		return
	}
	log.Printf("[INFO] posted %d statuses", len(ids))
}
