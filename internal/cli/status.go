package cli

import (
	"github.com/harun/birthdaybot/internal/config"
	"github.com/harun/birthdaybot/pkg/browser"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pairing and run status",
	Long:  `Show the config file in use, whether the Chrome profile is paired and whether a run is in progress.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Printf("Config: %s\n", config.NewLoader(cfgFile).GetConfigPath())
	cmd.Printf("Profile: %s\n", cfg.Browser.ProfileDir)
	if browser.IsFirstRun(cfg.Browser.ProfileDir) {
		cmd.Println("Paired: no (run \"birthdaybot pair\")")
	} else {
		cmd.Println("Paired: yes")
	}

	path := lockPath(cfg)
	pid, ok := runningPID(path)
	if !ok {
		cmd.Println("Run: idle")
		return nil
	}

	cmd.Println("Run: in progress")
	cmd.Printf("PID: %d\n", pid)
	if age, ok := lockAge(path); ok {
		cmd.Printf("Elapsed: %s\n", formatDuration(age))
	}

	return nil
}
