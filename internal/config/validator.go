package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateURL validates an absolute http(s) URL
func (v *Validator) ValidateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", field)
	}

	return nil
}

// ValidateCaption validates the message caption
func (v *Validator) ValidateCaption(caption string) error {
	if strings.TrimSpace(caption) == "" {
		return fmt.Errorf("whatsapp.caption cannot be empty")
	}
	return nil
}

// ValidateExtension validates an asset file extension
func (v *Validator) ValidateExtension(ext string) error {
	pattern := regexp.MustCompile(`^\.[A-Za-z0-9]+$`)
	if !pattern.MatchString(ext) {
		return fmt.Errorf("invalid assets.file_extension: %q (expected e.g. .png)", ext)
	}
	return nil
}

// ValidateTimeout validates a timeout in seconds
func (v *Validator) ValidateTimeout(name string, seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("timeouts.%s must be positive, got %d", name, seconds)
	}
	if seconds > 3600 {
		return fmt.Errorf("timeouts.%s too large (max 3600), got %d", name, seconds)
	}
	return nil
}

// ValidatePause validates a settle pause in milliseconds
func (v *Validator) ValidatePause(name string, millis int) error {
	if millis < 0 {
		return fmt.Errorf("pauses.%s must be >= 0, got %d", name, millis)
	}
	return nil
}

// ValidateChromeVersion validates a minimum Chrome version
func (v *Validator) ValidateChromeVersion(version string) error {
	if version == "" {
		return nil // No minimum
	}
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("invalid browser.min_chrome_version %q: %w", version, err)
	}
	return nil
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	for _, valid := range validLevels {
		if level == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateConfig performs comprehensive validation
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errors []error

	// Validate chat application
	if err := v.ValidateURL("whatsapp.base_url", cfg.WhatsApp.BaseURL); err != nil {
		errors = append(errors, err)
	}
	if cfg.WhatsApp.GroupURL != "" {
		if err := v.ValidateURL("whatsapp.group_url", cfg.WhatsApp.GroupURL); err != nil {
			errors = append(errors, err)
		}
	}
	if err := v.ValidateCaption(cfg.WhatsApp.Caption); err != nil {
		errors = append(errors, err)
	}

	// Validate assets
	if err := v.ValidateExtension(cfg.Assets.FileExtension); err != nil {
		errors = append(errors, err)
	}

	// Validate spreadsheet
	if strings.TrimSpace(cfg.Spreadsheet.NameColumn) == "" {
		errors = append(errors, fmt.Errorf("spreadsheet.name_column cannot be empty"))
	}
	if strings.TrimSpace(cfg.Spreadsheet.DateColumn) == "" {
		errors = append(errors, fmt.Errorf("spreadsheet.date_column cannot be empty"))
	}

	// Validate timeouts
	timeouts := []struct {
		name  string
		value int
	}{
		{"pairing", cfg.Timeouts.Pairing},
		{"ready", cfg.Timeouts.Ready},
		{"navigate", cfg.Timeouts.Navigate},
		{"step", cfg.Timeouts.Step},
	}
	for _, t := range timeouts {
		if err := v.ValidateTimeout(t.name, t.value); err != nil {
			errors = append(errors, err)
		}
	}
	if cfg.Timeouts.Pairing < cfg.Timeouts.Ready {
		errors = append(errors, fmt.Errorf("timeouts.pairing (%d) must not be shorter than timeouts.ready (%d)",
			cfg.Timeouts.Pairing, cfg.Timeouts.Ready))
	}

	// Validate pauses
	pauses := []struct {
		name  string
		value int
	}{
		{"menu", cfg.Pauses.Menu},
		{"media", cfg.Pauses.Media},
		{"upload", cfg.Pauses.Upload},
		{"caption", cfg.Pauses.Caption},
		{"send", cfg.Pauses.Send},
	}
	for _, p := range pauses {
		if err := v.ValidatePause(p.name, p.value); err != nil {
			errors = append(errors, err)
		}
	}

	// Validate browser
	if err := v.ValidateChromeVersion(cfg.Browser.MinChromeVersion); err != nil {
		errors = append(errors, err)
	}

	// Validate logging
	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errors = append(errors, err)
	}
	if cfg.Logging.MaxSize < 0 {
		errors = append(errors, fmt.Errorf("logging.max_size must be >= 0"))
	}
	if cfg.Logging.MaxAge < 0 {
		errors = append(errors, fmt.Errorf("logging.max_age must be >= 0"))
	}

	return errors
}
