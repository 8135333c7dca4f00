// Package globalconfig provides global configuration management for deskctl.
// Configuration is stored at ~/.config/deskctl/config.yaml and records the
// download directory, install scope, and every application deskctl has
// installed, so installs are idempotent and uninstalls know what to remove.
package globalconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/deskctl/pkg/sysinfo"
)

// Version is the current config schema version.
const Version = "1.0"

// ConfigDirName is the directory under XDG_CONFIG_HOME.
const ConfigDirName = "deskctl"

// ErrNotFound is returned when a config file does not exist yet.
var ErrNotFound = errors.New("deskctl config not found")

// Config represents the global deskctl configuration.
type Config struct {
	Version       string         `yaml:"version"`
	DownloadDir   string         `yaml:"download_dir"` // where fetched artifacts land
	InstallDir    string         `yaml:"install_dir"`  // where AppImages/tarballs are placed
	SystemScope   bool           `yaml:"system_scope"` // /usr/share vs ~/.local/share integration
	InstalledApps []InstalledApp `yaml:"installed_apps"`
}

// overrides holds environment-variable overrides (DESKCTL_*).
type overrides struct {
	DownloadDir string `envconfig:"DOWNLOAD_DIR"`
	InstallDir  string `envconfig:"INSTALL_DIR"`
}

// InstalledApp records one application deskctl installed.
type InstalledApp struct {
	ID          string    `yaml:"id"`      // catalog ID, e.g. "cursor"
	Version     string    `yaml:"version"` // resolved release version
	Path        string    `yaml:"path"`    // main artifact location
	InstalledAt time.Time `yaml:"installed_at"`
	Artifacts   []string  `yaml:"artifacts,omitempty"` // every file written, for uninstall
}

// NewConfig creates a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version:       Version,
		DownloadDir:   defaultDownloadDir(),
		InstallDir:    "/opt",
		InstalledApps: []InstalledApp{},
	}
}

func defaultDownloadDir() string {
	home, err := sysinfo.HomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, "Downloads")
}

// Path returns the config file path.
func Path() (string, error) {
	configHome, err := sysinfo.ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, ConfigDirName, "config.yaml"), nil
}

// Load reads the config, returning ErrNotFound when it does not exist.
// Environment overrides (DESKCTL_DOWNLOAD_DIR, DESKCTL_INSTALL_DIR) are
// applied after the file is read.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads a config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DownloadDir == "" {
		cfg.DownloadDir = defaultDownloadDir()
	}
	if cfg.InstallDir == "" {
		cfg.InstallDir = "/opt"
	}
	if cfg.InstalledApps == nil {
		cfg.InstalledApps = []InstalledApp{}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// LoadOrCreate loads the config if it exists, or returns a fresh one.
func LoadOrCreate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			cfg = NewConfig()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays DESKCTL_* environment variables.
func (c *Config) applyEnv() {
	var env overrides
	if err := envconfig.Process("deskctl", &env); err != nil {
		return
	}
	if env.DownloadDir != "" {
		c.DownloadDir = env.DownloadDir
	}
	if env.InstallDir != "" {
		c.InstallDir = env.InstallDir
	}
}

// Save writes the config to the default path atomically.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path atomically.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}
	return nil
}

// FindApp returns the installed record for an app ID, or nil.
func (c *Config) FindApp(id string) *InstalledApp {
	for i := range c.InstalledApps {
		if c.InstalledApps[i].ID == id {
			return &c.InstalledApps[i]
		}
	}
	return nil
}

// RecordApp adds or replaces the installed record for an app.
func (c *Config) RecordApp(app InstalledApp) {
	for i := range c.InstalledApps {
		if c.InstalledApps[i].ID == app.ID {
			c.InstalledApps[i] = app
			return
		}
	}
	c.InstalledApps = append(c.InstalledApps, app)
}

// ForgetApp removes the installed record for an app ID.
func (c *Config) ForgetApp(id string) bool {
	for i := range c.InstalledApps {
		if c.InstalledApps[i].ID == id {
			c.InstalledApps = append(c.InstalledApps[:i], c.InstalledApps[i+1:]...)
			return true
		}
	}
	return false
}
