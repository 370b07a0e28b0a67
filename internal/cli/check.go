package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/harun/birthdaybot/pkg/assets"
	"github.com/harun/birthdaybot/pkg/browser"
	"github.com/harun/birthdaybot/pkg/orchestrator"
	"github.com/harun/birthdaybot/pkg/recipients"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	checkDate        string
	checkSkipBrowser bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show what a run would send, without opening WhatsApp",
	Long: `Read the spreadsheet and the image folder and print who would receive a
message on the given date and whether each image exists. Also reports the
profile pairing state and the installed Chrome version.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkDate, "date", "", "check as if today were this date (YYYY-MM-DD)")
	checkCmd.Flags().BoolVar(&checkSkipBrowser, "skip-browser", false, "do not inspect the Chrome installation")
	rootCmd.AddCommand(checkCmd)
}

// planEntry is one recipient due on the checked date
type planEntry struct {
	Name  string
	Asset string
	Found bool
}

// plan is what a run would do on a given date
type plan struct {
	Date        time.Time
	Loaded      int
	MonthFolder string
	Entries     []planEntry
}

// buildPlan resolves recipients and images the same way a run does
func buildPlan(source orchestrator.RecipientSource, locator *assets.Locator, today time.Time) (*plan, error) {
	all, err := source.Load()
	if err != nil {
		return nil, err
	}

	p := &plan{Date: today, Loaded: len(all)}

	folder, err := locator.MonthFolder(today.Month())
	if errors.Is(err, assets.ErrMonthFolderNotFound) {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	p.MonthFolder = folder

	for _, r := range recipients.Filter(all, today) {
		entry := planEntry{Name: r.Name, Asset: locator.AssetPath(folder, r.Name)}
		if _, err := locator.Resolve(folder, r.Name); err == nil {
			entry.Found = true
		}
		p.Entries = append(p.Entries, entry)
	}

	return p, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	today, err := parseDate(checkDate, time.Now())
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

	source := recipients.NewSource(recipientOptions(cfg), log.GetZerolog())
	locator := assets.NewLocator(afero.NewOsFs(), assetOptions(cfg), log.GetZerolog())

	p, err := buildPlan(source, locator, today)
	if err != nil {
		return err
	}
	printPlan(cmd, p)

	if browser.IsFirstRun(cfg.Browser.ProfileDir) {
		cmd.Println("Profile: not paired (the next run waits for a QR scan)")
	} else {
		cmd.Println("Profile: paired")
	}

	if checkSkipBrowser {
		return nil
	}

	version, err := browser.ChromeVersion(cfg.Browser.ChromePath)
	if err != nil {
		return err
	}
	cmd.Printf("Chrome: %s\n", version)

	return browser.CheckChromeVersion(version, cfg.Browser.MinChromeVersion)
}

func printPlan(cmd *cobra.Command, p *plan) {
	cmd.Printf("Date: %s\n", p.Date.Format(dateLayout))
	cmd.Printf("Recipients loaded: %d\n", p.Loaded)

	if p.MonthFolder == "" {
		cmd.Println("Month folder: none (a run would send nothing)")
		return
	}
	cmd.Printf("Month folder: %s\n", p.MonthFolder)

	if len(p.Entries) == 0 {
		cmd.Println("No birthdays on this date")
		return
	}

	for _, e := range p.Entries {
		status := "ok"
		if !e.Found {
			status = "MISSING"
		}
		cmd.Printf("  %-7s %s (%s)\n", status, e.Name, e.Asset)
	}
}
