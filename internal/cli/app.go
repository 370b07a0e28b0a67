package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harun/birthdaybot/internal/config"
	"github.com/harun/birthdaybot/internal/logger"
	"github.com/harun/birthdaybot/internal/metrics"
	"github.com/harun/birthdaybot/pkg/assets"
	"github.com/harun/birthdaybot/pkg/browser"
	"github.com/harun/birthdaybot/pkg/delivery"
	"github.com/harun/birthdaybot/pkg/orchestrator"
	"github.com/harun/birthdaybot/pkg/recipients"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const dateLayout = "2006-01-02"

// loadConfig reads the config file and applies the --log-level override
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		if err := config.NewValidator().ValidateLogLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.Logging.Level = logLevel
	}

	return cfg, nil
}

// setupLogger builds the process logger from the logging section
func setupLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:     cfg.Logging.Level,
		File:      cfg.Logging.File,
		Console:   cfg.Logging.Console,
		Pretty:    isatty.IsTerminal(os.Stderr.Fd()),
		Redaction: cfg.Logging.Redaction,
		MaxSize:   cfg.Logging.MaxSize,
		MaxAge:    cfg.Logging.MaxAge,
		Compress:  cfg.Logging.Compress,
	})
}

// parseDate returns the --date value at local midnight, or now when empty
func parseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}

	d, err := time.ParseInLocation(dateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return d, nil
}

func recipientOptions(cfg *config.Config) recipients.Options {
	return recipients.Options{
		Path:       cfg.Spreadsheet.Path,
		Sheet:      cfg.Spreadsheet.Sheet,
		NameColumn: cfg.Spreadsheet.NameColumn,
		DateColumn: cfg.Spreadsheet.DateColumn,
	}
}

func assetOptions(cfg *config.Config) assets.Options {
	return assets.Options{
		BaseDir:   cfg.Assets.BaseDir,
		Prefix:    cfg.Assets.FilePrefix,
		Extension: cfg.Assets.FileExtension,
	}
}

func browserOptions(cfg *config.Config) browser.Options {
	return browser.Options{
		Profile: browser.Profile{
			Dir:        cfg.Browser.ProfileDir,
			ChromePath: cfg.Browser.ChromePath,
			Headless:   cfg.Browser.Headless,
			NoSandbox:  cfg.Browser.NoSandbox,
			Args:       cfg.Browser.Args,
		},
		Auth: browser.AuthConfig{
			HomeURL:        cfg.WhatsApp.BaseURL,
			ReadySelector:  cfg.WhatsApp.ReadySelector,
			PairingTimeout: config.Seconds(cfg.Timeouts.Pairing),
			ReadyTimeout:   config.Seconds(cfg.Timeouts.Ready),
		},
		AllowedDomains: cfg.Browser.AllowedDomains,
	}
}

// deliveryConfig merges configured selector overrides into the defaults
func deliveryConfig(cfg *config.Config) delivery.Config {
	sel := delivery.DefaultSelectors()
	o := cfg.WhatsApp.Selectors
	override(&sel.Composer, o.Composer)
	override(&sel.AttachmentMenu, o.AttachmentMenu)
	override(&sel.MediaCategory, o.MediaCategory)
	override(&sel.FileInput, o.FileInput)
	override(&sel.Caption, o.Caption)
	override(&sel.Send, o.Send)

	return delivery.Config{
		ConversationURL: cfg.WhatsApp.GroupURL,
		Caption:         cfg.WhatsApp.Caption,
		Selectors:       sel,
		Timeouts: delivery.Timeouts{
			Navigate: config.Seconds(cfg.Timeouts.Navigate),
			Step:     config.Seconds(cfg.Timeouts.Step),
		},
		Pauses: delivery.Pauses{
			Menu:    config.Millis(cfg.Pauses.Menu),
			Media:   config.Millis(cfg.Pauses.Media),
			Upload:  config.Millis(cfg.Pauses.Upload),
			Caption: config.Millis(cfg.Pauses.Caption),
			Send:    config.Millis(cfg.Pauses.Send),
		},
	}
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// checkURLs rejects configured URLs the browser would refuse to open
func checkURLs(cfg *config.Config) error {
	policy := browser.NewURLPolicy(cfg.Browser.AllowedDomains)
	for _, u := range []string{cfg.WhatsApp.BaseURL, cfg.WhatsApp.GroupURL} {
		if err := policy.Check(u); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", u, err)
		}
	}
	return nil
}

// sessionFactory adapts the browser manager to the orchestrator
func sessionFactory(m *browser.Manager) orchestrator.SessionFactory {
	return func(ctx context.Context) (orchestrator.Session, error) {
		s, err := m.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// newOrchestrator wires every component of a delivery run
func newOrchestrator(cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) *orchestrator.Orchestrator {
	source := recipients.NewSource(recipientOptions(cfg), log)
	locator := assets.NewLocator(afero.NewOsFs(), assetOptions(cfg), log)
	manager := browser.NewManager(browserOptions(cfg), log)
	sender := delivery.NewSender(deliveryConfig(cfg), log, delivery.WithRecorder(m))

	return orchestrator.New(source, locator, sessionFactory(manager), sender, log,
		orchestrator.WithRecorder(m))
}

// lockPath is the PID file guarding the browser profile
func lockPath(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "birthdaybot.pid")
}
