package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
)

const (
	appDir     = ".birthdaybot"
	configName = "birthdaybot.json"
	envPrefix  = "BIRTHDAYBOT"
)

// Loader handles configuration loading
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads the configuration from file. Environment variables such as
// BIRTHDAYBOT_WHATSAPP_GROUP_URL override file values.
func (l *Loader) Load() (*Config, error) {
	configPath := l.GetConfigPath()
	if configPath == "" {
		return nil, fmt.Errorf("failed to determine config path")
	}

	// Setup viper
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// Defaults only when the file doesn't exist
	if data, err := os.ReadFile(configPath); err == nil {
		if err := validateSchema(data); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}

		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into config struct
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set data directory if not specified
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(configPath)
	}

	// Set logging file path if not specified
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(cfg.DataDir, "birthdaybot.log")
	}

	// Set browser profile if not specified
	if cfg.Browser.ProfileDir == "" {
		cfg.Browser.ProfileDir = filepath.Join(cfg.DataDir, "chrome-profile")
	}

	return cfg, nil
}

// bindEnv registers the keys that may come only from the environment.
// AutomaticEnv alone does not surface keys missing from the config file
// to Unmarshal.
func bindEnv(v *viper.Viper) {
	keys := []string{
		"spreadsheet.path",
		"spreadsheet.sheet",
		"assets.base_dir",
		"whatsapp.group_url",
		"whatsapp.caption",
		"browser.profile_dir",
		"browser.headless",
		"browser.chrome_path",
		"logging.level",
		"metrics.textfile",
		"data_dir",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// validateSchema checks the raw config file against ConfigSchema
func validateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(ConfigSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		// Collect all validation errors
		var errMsg string
		for i, err := range result.Errors() {
			if i > 0 {
				errMsg += "; "
			}
			errMsg += err.String()
		}
		return fmt.Errorf("schema validation errors: %s", errMsg)
	}

	return nil
}

// Save saves the configuration to file
func (l *Loader) Save(cfg *Config) error {
	configPath := l.GetConfigPath()
	if configPath == "" {
		return fmt.Errorf("failed to determine config path")
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Setup viper
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	// Set all config values
	v.Set("spreadsheet", cfg.Spreadsheet)
	v.Set("assets", cfg.Assets)
	v.Set("whatsapp", cfg.WhatsApp)
	v.Set("browser", cfg.Browser)
	v.Set("timeouts", cfg.Timeouts)
	v.Set("pauses", cfg.Pauses)
	v.Set("logging", cfg.Logging)
	v.Set("metrics", cfg.Metrics)
	v.Set("data_dir", cfg.DataDir)

	// Write config file
	if err := v.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if os.IsNotExist(err) {
			if err := v.SafeWriteConfig(); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}
		} else {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, appDir, configName)
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	loader := NewLoader(configPath)
	return loader.Load()
}
