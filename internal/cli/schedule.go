package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feedwise/feedwise/internal/schedule"
)

var runNow bool

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the digest on a cron schedule until interrupted",
	Long: `Schedule keeps feedwise running and builds digests on a cron schedule
(default: every day at 06:00 UTC). A run still in progress when the next one
is due is skipped.

Example:
  feedwise schedule
  feedwise schedule --cron "0 7 * * 1-5" --timezone Europe/Rome
  feedwise schedule --cron "@every 6h" --run-now`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindDigestFlags(cmd, args); err != nil {
			return err
		}
		if err := viper.BindPFlag("schedule.cron", cmd.Flags().Lookup("cron")); err != nil {
			return err
		}
		return viper.BindPFlag("schedule.timezone", cmd.Flags().Lookup("timezone"))
	},
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	addDigestFlags(scheduleCmd)

	scheduleCmd.Flags().String("cron", "", "cron expression (5 fields or @descriptor)")
	scheduleCmd.Flags().String("timezone", "", "IANA timezone for the cron expression")
	scheduleCmd.Flags().BoolVar(&runNow, "run-now", false, "run once immediately before waiting for the schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cfg)
	logger := newLogger(cfg)

	job := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()
		stats, err := runDigestOnce(ctx, cfg, logger, digestOptions{
			categories: categoryNames,
			stdout:     os.Stdout,
			progress:   os.Stderr,
		})
		if err != nil {
			return err
		}
		if stats.Failures > 0 && stats.Success == 0 {
			return fmt.Errorf("all %d digests failed", stats.Failures)
		}
		return nil
	}

	s, err := schedule.New(cfg.Schedule.Cron, cfg.Schedule.Timezone, job, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runNow {
		if err := job(ctx); err != nil {
			logger.Error("initial run failed", "error", err)
		}
	}

	s.Start()
	fmt.Fprintf(os.Stderr, "✓ Scheduled %q (%s), next run %s\n",
		cfg.Schedule.Cron, s.Location(), s.Next().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(os.Stderr, "  Press Ctrl+C to stop\n")

	<-ctx.Done()
	fmt.Fprintf(os.Stderr, "\n⚙️  Stopping scheduler...\n")
	s.Stop()
	fmt.Fprintf(os.Stderr, "✓ Stopped after %d runs\n", s.Runs())
	return nil
}
