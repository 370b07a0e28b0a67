package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Config represents the main birthdaybot configuration
type Config struct {
	// Recipient spreadsheet
	Spreadsheet SpreadsheetConfig `json:"spreadsheet" mapstructure:"spreadsheet"`

	// Image assets
	Assets AssetsConfig `json:"assets" mapstructure:"assets"`

	// Chat application
	WhatsApp WhatsAppConfig `json:"whatsapp" mapstructure:"whatsapp"`

	// Browser
	Browser BrowserConfig `json:"browser" mapstructure:"browser"`

	// Waits and settle pauses
	Timeouts TimeoutsConfig `json:"timeouts" mapstructure:"timeouts"`
	Pauses   PausesConfig   `json:"pauses" mapstructure:"pauses"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Metrics
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// SpreadsheetConfig locates the birthday list
type SpreadsheetConfig struct {
	Path       string `json:"path" mapstructure:"path"`
	Sheet      string `json:"sheet" mapstructure:"sheet"` // empty = first sheet
	NameColumn string `json:"name_column" mapstructure:"name_column"`
	DateColumn string `json:"date_column" mapstructure:"date_column"`
}

// AssetsConfig locates the per-person images
type AssetsConfig struct {
	BaseDir       string `json:"base_dir" mapstructure:"base_dir"`
	FilePrefix    string `json:"file_prefix" mapstructure:"file_prefix"`
	FileExtension string `json:"file_extension" mapstructure:"file_extension"`
}

// WhatsAppConfig describes the target chat
type WhatsAppConfig struct {
	BaseURL       string          `json:"base_url" mapstructure:"base_url"`
	GroupURL      string          `json:"group_url" mapstructure:"group_url"`
	Caption       string          `json:"caption" mapstructure:"caption"`
	ReadySelector string          `json:"ready_selector" mapstructure:"ready_selector"`
	Selectors     SelectorsConfig `json:"selectors" mapstructure:"selectors"`
}

// SelectorsConfig overrides the XPath selectors of the send flow.
// Empty values keep the built-in selectors.
type SelectorsConfig struct {
	Composer       string `json:"composer,omitempty" mapstructure:"composer"`
	AttachmentMenu string `json:"attachment_menu,omitempty" mapstructure:"attachment_menu"`
	MediaCategory  string `json:"media_category,omitempty" mapstructure:"media_category"`
	FileInput      string `json:"file_input,omitempty" mapstructure:"file_input"`
	Caption        string `json:"caption,omitempty" mapstructure:"caption"`
	Send           string `json:"send,omitempty" mapstructure:"send"`
}

// BrowserConfig holds Chrome settings
type BrowserConfig struct {
	ProfileDir       string   `json:"profile_dir" mapstructure:"profile_dir"`
	Headless         bool     `json:"headless" mapstructure:"headless"`
	NoSandbox        bool     `json:"no_sandbox" mapstructure:"no_sandbox"`
	ChromePath       string   `json:"chrome_path" mapstructure:"chrome_path"`
	Args             []string `json:"args" mapstructure:"args"`
	MinChromeVersion string   `json:"min_chrome_version" mapstructure:"min_chrome_version"`
	AllowedDomains   []string `json:"allowed_domains" mapstructure:"allowed_domains"` // navigation allowlist
}

// TimeoutsConfig holds wait bounds in seconds
type TimeoutsConfig struct {
	Pairing  int `json:"pairing" mapstructure:"pairing"`   // first run QR scan
	Ready    int `json:"ready" mapstructure:"ready"`       // chat app ready on later runs
	Navigate int `json:"navigate" mapstructure:"navigate"` // conversation load
	Step     int `json:"step" mapstructure:"step"`         // each UI control
}

// PausesConfig holds settle pauses in milliseconds
type PausesConfig struct {
	Menu    int `json:"menu" mapstructure:"menu"`
	Media   int `json:"media" mapstructure:"media"`
	Upload  int `json:"upload" mapstructure:"upload"`
	Caption int `json:"caption" mapstructure:"caption"`
	Send    int `json:"send" mapstructure:"send"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	MaxSize   int    `json:"max_size" mapstructure:"max_size"` // MB
	MaxAge    int    `json:"max_age" mapstructure:"max_age"`   // days
	Compress  bool   `json:"compress" mapstructure:"compress"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// MetricsConfig holds metrics export settings
type MetricsConfig struct {
	// Textfile is written in Prometheus text format at the end of each run
	// (node_exporter textfile collector). Empty disables the export.
	Textfile string `json:"textfile" mapstructure:"textfile"`
}

// DefaultCaption is the fixed message sent with every image
const DefaultCaption = "Many happy returns, happy birthday! 🎉🎊"

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Spreadsheet: SpreadsheetConfig{
			NameColumn: "Name",
			DateColumn: "Date of Birth",
		},
		Assets: AssetsConfig{
			FilePrefix:    "Birthday ",
			FileExtension: ".png",
		},
		WhatsApp: WhatsAppConfig{
			BaseURL: "https://web.whatsapp.com",
			Caption: DefaultCaption,
		},
		Browser: BrowserConfig{
			Headless:         false,
			NoSandbox:        true,
			Args:             []string{},
			MinChromeVersion: "110.0.0",
			AllowedDomains:   []string{"whatsapp.com", "*.whatsapp.com"},
		},
		Timeouts: TimeoutsConfig{
			Pairing:  60,
			Ready:    20,
			Navigate: 20,
			Step:     10,
		},
		Pauses: PausesConfig{
			Menu:    1000,
			Media:   1000,
			Upload:  2000,
			Caption: 1000,
			Send:    10000,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			MaxSize:   100,
			MaxAge:    7,
			Compress:  true,
			Redaction: true,
		},
		DataDir: "",
	}
}

// Seconds converts a timeout setting to a duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Millis converts a pause setting to a duration
func Millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks the settings a delivery run cannot start without
func (c *Config) Validate() error {
	if c.Spreadsheet.Path == "" {
		return fmt.Errorf("spreadsheet.path is required")
	}
	if c.Assets.BaseDir == "" {
		return fmt.Errorf("assets.base_dir is required")
	}
	if c.WhatsApp.GroupURL == "" {
		return fmt.Errorf("whatsapp.group_url is required")
	}
	if c.Browser.ProfileDir == "" {
		return fmt.Errorf("browser.profile_dir is required")
	}

	if errs := NewValidator().ValidateConfig(c); len(errs) > 0 {
		return errs[0]
	}

	return nil
}
