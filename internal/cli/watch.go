package cli

import (
	"github.com/spf13/cobra"

	"github.com/paddocknews/f1news/internal/logger"
	"github.com/paddocknews/f1news/internal/scheduler"
)

var flagSchedule string

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check for new stories on a cron schedule",
		Long: `Runs the check immediately and then on the given cron schedule until
interrupted. A run that is still in progress when the next one is due causes
that tick to be skipped.`,
		RunE: runWatch,
	}

	cmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron schedule (default \"*/30 * * * *\", or env: F1NEWS_SCHEDULE)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print emails instead of sending them")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, format, err := setup()
	if err != nil {
		return err
	}
	if flagSchedule != "" {
		cfg.Schedule = flagSchedule
	}

	runner, err := newRunner(cfg, flagDryRun, dryRunWriter(cmd, format))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	job := func() {
		result, err := runner.Run(ctx)
		if err != nil {
			// the next tick tries again
			logger.Error("Run failed", nil, err)
			return
		}
		if err := WriteOutput(cmd.OutOrStdout(), NewOutputResult(result), format, flagVerbose); err != nil {
			logger.Error("Writing output failed", nil, err)
		}
	}

	sched, err := scheduler.New(cfg.Schedule, job, logger.Default())
	if err != nil {
		return err
	}

	logger.Info("Watching for new stories", logger.Fields{"schedule": cfg.Schedule, "url": cfg.Source.URL})
	sched.Run(ctx)

	return nil
}
