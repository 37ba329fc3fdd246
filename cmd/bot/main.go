package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"HomicideWatch/internal/collector"
	"HomicideWatch/internal/config"
	"HomicideWatch/internal/engine"
	"HomicideWatch/internal/notifier"
	"HomicideWatch/internal/recorder"
	"HomicideWatch/internal/runner"
	"HomicideWatch/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "homicidewatch",
		Short:         "Posts daily Philadelphia homicide statistics updates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newServeCommand())
	return cmd
}

func loadConfig() (*config.Config, error) {
	// .env first so credentials are visible to config.Load.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func buildRunner(cfg *config.Config) (*runner.Runner, func()) {
	var fetcher collector.Fetcher
	if cfg.Source.Fetcher == "browser" {
		fetcher = collector.NewBrowserFetcher(cfg.Source.URL, "#"+collector.TableID)
	} else {
		fetcher = collector.NewHTTPFetcher(cfg.Source.URL, cfg.Proxy)
	}
	log.Printf("[INFO] fetcher: %s", fetcher.Name())

	var rec recorder.Recorder
	cleanup := func() {}
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			cleanup = func() { sr.Close() }
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	r := runner.New(fetcher, cfg.History.CSVPath, engine.ComparisonPolicy(cfg.Narrative.ComparisonPolicy), rec, nil)
	return r, cleanup
}

func twitterCredentials(cfg *config.Config) notifier.Credentials {
	return notifier.Credentials{
		ConsumerKey:    cfg.Twitter.ConsumerKey,
		ConsumerSecret: cfg.Twitter.ConsumerSecret,
		AccessKey:      cfg.Twitter.AccessKey,
		AccessSecret:   cfg.Twitter.AccessSecret,
	}
}

func newUpdateCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Run the daily update check once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}

			r, cleanup := buildRunner(cfg)
			defer cleanup()

			res, err := r.Run(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			if !res.Posted() {
				log.Printf("[INFO] nothing to post: %s", res.Outcome)
				return nil
			}

			for _, msg := range res.Messages {
				log.Printf("[INFO] %s", msg)
			}
			if dryRun {
				log.Println("[INFO] dry run, skipping delivery")
				return nil
			}

			tn := notifier.NewTwitterNotifier(twitterCredentials(cfg))
			ids, err := tn.PostThread(cmd.Context(), res.Messages)
			if err != nil {
				return fmt.Errorf("post thread (%d statuses went out): %w", len(ids), err)
			}
			log.Printf("[INFO] posted %d statuses", len(ids))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate messages without persisting or posting")
	return cmd
}

func newServeCommand() *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the update check on a daily cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.ValidateCredentials(); err != nil {
				return err
			}

			r, cleanup := buildRunner(cfg)
			defer cleanup()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			tn := notifier.NewTwitterNotifier(twitterCredentials(cfg))
			sched := scheduler.NewScheduler(ctx, r, tn)
			if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
				return fmt.Errorf("register cron task: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			if runOnStart {
				go sched.RunNow()
			}

			log.Println("[INFO] HomicideWatch is running. Press Ctrl+C to stop.")
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sigCh:
			case <-ctx.Done():
			}

			log.Println("[INFO] shutdown signal received, stopping...")
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "execute the update task immediately on startup")
	return cmd
}
