package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harun/birthdaybot/internal/config"
	"github.com/harun/birthdaybot/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	pairReset   bool
	pairTimeout int
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Link the Chrome profile to WhatsApp by scanning a QR code",
	Long: `Open a visible Chrome window on the configured profile and wait for the
WhatsApp QR code to be scanned from the phone. The login is kept in the
profile directory, so this is only needed once (or after logging out).`,
	Args: cobra.NoArgs,
	RunE: runPair,
}

func init() {
	pairCmd.Flags().BoolVar(&pairReset, "reset", false, "move the current profile aside and pair from scratch")
	pairCmd.Flags().IntVar(&pairTimeout, "timeout", 0, "seconds to wait for the scan (default timeouts.pairing)")
	rootCmd.AddCommand(pairCmd)
}

func runPair(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
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

	if pairReset {
		backup, err := browser.ResetProfile(cfg.Browser.ProfileDir)
		if err != nil {
			return err
		}
		if backup != "" {
			cmd.Printf("Previous profile moved to %s\n", backup)
		}
	}

	opts := browserOptions(cfg)
	opts.Profile.Headless = false
	if pairTimeout > 0 {
		opts.Auth.PairingTimeout = config.Seconds(pairTimeout)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.NewManager(opts, log.GetZerolog()).Acquire(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	cmd.Printf("Scan the QR code shown in Chrome within %s\n", opts.Auth.PairingTimeout)
	if err := session.Pair(ctx); err != nil {
		return err
	}

	cmd.Printf("Profile paired: %s\n", cfg.Browser.ProfileDir)
	return nil
}
