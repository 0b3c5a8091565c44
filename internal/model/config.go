package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backend kinds accepted in backend.kind.
const (
	BackendMemory = "memory"
	BackendHTTP   = "http"
	BackendIMAP   = "imap"
)

// MailServerConfig holds the host settings of an IMAP or SMTP server.
// Passwords are kept in the system keyring, never in the config file.
type MailServerConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
}

// BackendConfig selects and configures the remote message service.
type BackendConfig struct {
	// Kind is one of "memory", "http" or "imap".
	Kind string `mapstructure:"kind" yaml:"kind"`

	// BaseURL is the root URL of the REST message service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single gateway call.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// Self is the participant name used for outgoing messages.
	Self string `mapstructure:"self" yaml:"self"`

	IMAP MailServerConfig `mapstructure:"imap" yaml:"imap"`
	SMTP MailServerConfig `mapstructure:"smtp" yaml:"smtp"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// PageWidth and PageHeight are the logical letter page size in points.
	PageWidth  float64 `mapstructure:"page_width" yaml:"page_width"`
	PageHeight float64 `mapstructure:"page_height" yaml:"page_height"`
}

// CacheConfig locates the local conversation cache.
type CacheConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the application log file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Accounts []Account     `mapstructure:"accounts" yaml:"accounts"`
	Backend  BackendConfig `mapstructure:"backend" yaml:"backend"`
	Display  DisplayConfig `mapstructure:"display" yaml:"display"`
	Cache    CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Log      LogConfig     `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/iboite, falling back to the working directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "iboite")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/iboite/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAccounts returns the identity contexts used when none are configured.
func DefaultAccounts() []Account {
	return []Account{
		{
			ID:       "personal",
			Name:     "Compte personnel",
			Category: CategoryPersonal,
			Address: PostalAddress{
				Street:       "12 rue des Lilas",
				City:         "Libreville",
				PostalCode:   "BP 1200",
				Country:      "Gabon",
				Label:        "Domicile",
				TrackingCode: "IB-PER-0001",
			},
			Email: "depute@iboite.ga",
		},
		{
			ID:       "professional",
			Name:     "Cabinet parlementaire",
			Category: CategoryProfessional,
			Address: PostalAddress{
				Street:       "Palais Léon Mba, Boulevard Triomphal",
				City:         "Libreville",
				PostalCode:   "BP 29",
				Country:      "Gabon",
				Label:        "Assemblée nationale",
				TrackingCode: "IB-PRO-0001",
			},
			Email: "cabinet@assemblee.ga",
		},
	}
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Accounts: DefaultAccounts(),
		Backend: BackendConfig{
			Kind:       BackendMemory,
			TimeoutSec: 30,
			Self:       "Moi",
		},
		Display: DisplayConfig{
			Theme:      "default",
			PageWidth:  595,
			PageHeight: 842,
		},
		Cache: CacheConfig{
			Path: filepath.Join(configDir(), "cache.db"),
		},
		Log: LogConfig{
			Path:  filepath.Join(configDir(), "iboite.log"),
			Level: "info",
		},
	}
}

// newViper builds a viper instance with defaults and IBOITE_* env overrides.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := defaultAppConfig()
	v.SetDefault("backend.kind", def.Backend.Kind)
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.timeout_sec", def.Backend.TimeoutSec)
	v.SetDefault("backend.self", def.Backend.Self)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.page_width", def.Display.PageWidth)
	v.SetDefault("display.page_height", def.Display.PageHeight)
	v.SetDefault("cache.path", def.Cache.Path)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix("IBOITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus environment overrides) are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	cfg.Accounts = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Accounts) == 0 {
		cfg.Accounts = DefaultAccounts()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the account list and backend selection.
func (c *AppConfig) Validate() error {
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.ID == "" {
			return fmt.Errorf("accounts[%d]: id is required", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("accounts[%d]: duplicate id %q", i, a.ID)
		}
		seen[a.ID] = true
		if _, err := ParseCategory(string(a.Category)); err != nil {
			return fmt.Errorf("accounts[%d]: %w", i, err)
		}
	}

	switch c.Backend.Kind {
	case BackendMemory:
	case BackendHTTP:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("backend.base_url is required for the http backend")
		}
	case BackendIMAP:
		if c.Backend.IMAP.Host == "" || c.Backend.SMTP.Host == "" {
			return fmt.Errorf("backend.imap.host and backend.smtp.host are required for the imap backend")
		}
	default:
		return fmt.Errorf("unknown backend kind %q", c.Backend.Kind)
	}

	if c.Display.PageWidth <= 0 || c.Display.PageHeight <= 0 {
		return fmt.Errorf("display page size must be positive")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("accounts", cfg.Accounts)
	v.Set("backend", cfg.Backend)
	v.Set("display", cfg.Display)
	v.Set("cache", cfg.Cache)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
