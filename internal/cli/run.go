package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harun/birthdaybot/internal/metrics"
	"github.com/harun/birthdaybot/internal/tracing"
	"github.com/spf13/cobra"
)

var runDate string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Send today's birthday messages",
	Long: `Send the birthday image to the group for everyone whose birthday is today.
Recipients without an image are skipped with a warning and a failed delivery
never stops the next one. Schedule this command once a day.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runDate, "date", "", "run as if today were this date (YYYY-MM-DD)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	today, err := parseDate(runDate, time.Now())
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := checkURLs(cfg); err != nil {
		return err
	}

	log, err := setupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Close()

	lock, err := acquireRunLock(lockPath(cfg))
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = tracing.NewRunContext(ctx)
	runLog := tracing.LoggerFromContext(ctx, log.Component("cli"))

	m := metrics.NewMetrics()
	runErr := newOrchestrator(cfg, log.GetZerolog(), m).Run(ctx, today)

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			runLog.Warn().Err(err).Msg("Failed to write metrics")
		}
	}

	if runErr != nil {
		runLog.Error().Err(runErr).Msg("Run failed")
		return runErr
	}
	return nil
}
