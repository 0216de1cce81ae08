// internal/config/config.go
//
// This package handles configuration and the .loomboard directory
// structure. Settings live in ~/.loomboard/config.yaml: the server base URL
// (the API prefix is a deployment concern, not part of the client) and
// process-wide display settings like the theme, loaded once at startup and
// written through on every change.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// LoomboardDir is the name of the directory we create in the user's home.
	LoomboardDir = ".loomboard"

	defaultServerURL = "http://localhost:8080/api/v1"
)

// Themes the TUI knows how to render.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

const defaultClientConfigYAML = `# loomboard client configuration
version: 1

# Base URL of the ticket service, including the API prefix.
server: http://localhost:8080/api/v1

# Display settings. theme is "dark" or "light"; the t key in the board
# toggles it and writes the choice back here.
display:
  theme: dark
`

// DisplayConfig captures presentation preferences.
type DisplayConfig struct {
	Theme string `yaml:"theme"`
}

// ClientConfig models .loomboard/config.yaml.
type ClientConfig struct {
	Version int           `yaml:"version"`
	Server  string        `yaml:"server"`
	Display DisplayConfig `yaml:"display"`
}

// Config holds the runtime configuration for loomboard.
type Config struct {
	// HomeDir is the directory that contains the .loomboard folder,
	// normally the user's home.
	HomeDir string

	// LoomboardHome is HomeDir/.loomboard.
	LoomboardHome string

	Client ClientConfig
}

// InitLoomboardDir creates the .loomboard directory structure under homeDir.
// Called once at startup before anything touches the config or state files.
//
// Structure created:
// .loomboard/
// ├── state/    <- session credential
// └── logs/     <- session activity log
func InitLoomboardDir(homeDir string) error {
	root := filepath.Join(homeDir, LoomboardDir)
	dirs := []string{
		filepath.Join(root, "state"),
		filepath.Join(root, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureClientConfig(filepath.Join(root, "config.yaml"))
}

// New loads the configuration rooted at homeDir. A missing config file
// yields the defaults; a malformed one is an error.
func New(homeDir string) (*Config, error) {
	cfg := &Config{
		HomeDir:       homeDir,
		LoomboardHome: filepath.Join(homeDir, LoomboardDir),
		Client:        defaultClientConfig(),
	}
	if err := cfg.loadClientConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewFromHome resolves the user's home directory and loads config from it.
func NewFromHome() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolve home directory: %w", err)
	}
	if err := InitLoomboardDir(home); err != nil {
		return nil, fmt.Errorf("config: init %s: %w", LoomboardDir, err)
	}
	return New(home)
}

// StateDir returns the path to the state directory.
func (c *Config) StateDir() string {
	return filepath.Join(c.LoomboardHome, "state")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.LoomboardHome, "logs")
}

// TokenPath returns the on-disk location of the session credential.
func (c *Config) TokenPath() string {
	return filepath.Join(c.StateDir(), "token")
}

// ClientConfigPath returns the on-disk location for the config file.
func (c *Config) ClientConfigPath() string {
	return filepath.Join(c.LoomboardHome, "config.yaml")
}

// ServerURL returns the configured service base URL.
func (c *Config) ServerURL() string {
	return c.Client.Server
}

// Theme returns the configured theme name.
func (c *Config) Theme() string {
	return c.Client.Display.Theme
}

// DarkMode reports whether the dark theme is active.
func (c *Config) DarkMode() bool {
	return c.Client.Display.Theme != ThemeLight
}

// SetTheme updates the theme and persists the value back to
// .loomboard/config.yaml so the next launch starts with the same choice.
func (c *Config) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("config: theme must be %q or %q", ThemeDark, ThemeLight)
	}
	c.Client.Display.Theme = theme
	return c.saveClientConfig()
}

// SetServerURL updates the service base URL and persists it. Used by the
// --server flag so an explicit choice sticks for future runs.
func (c *Config) SetServerURL(server string) error {
	server = strings.TrimSpace(server)
	if server == "" {
		return fmt.Errorf("config: server URL is required")
	}
	c.Client.Server = server
	return c.saveClientConfig()
}

func (c *Config) loadClientConfig() error {
	path := c.ClientConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ClientConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Client = parsed
	return nil
}

func defaultClientConfig() ClientConfig {
	return ClientConfig{
		Version: 1,
		Server:  defaultServerURL,
		Display: DisplayConfig{Theme: ThemeDark},
	}
}

func (cc *ClientConfig) applyDefaults() {
	if cc.Version == 0 {
		cc.Version = 1
	}
	if strings.TrimSpace(cc.Server) == "" {
		cc.Server = defaultServerURL
	}
	if strings.TrimSpace(cc.Display.Theme) == "" {
		cc.Display.Theme = ThemeDark
	}
}

func (cc *ClientConfig) normalize() {
	cc.Server = strings.TrimRight(strings.TrimSpace(cc.Server), "/")
	cc.Display.Theme = strings.ToLower(strings.TrimSpace(cc.Display.Theme))
}

func (cc *ClientConfig) validate() error {
	if cc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	u, err := url.Parse(cc.Server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server must be an absolute URL, got %q", cc.Server)
	}
	switch cc.Display.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("display.theme must be %q or %q", ThemeDark, ThemeLight)
	}
	return nil
}

func ensureClientConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultClientConfigYAML), 0o644)
}

func (c *Config) saveClientConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Client.applyDefaults()
	c.Client.normalize()
	if err := c.Client.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.LoomboardHome, 0o755); err != nil {
		return fmt.Errorf("config: ensure loomboard dir: %w", err)
	}
	data, err := yaml.Marshal(c.Client)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ClientConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write client config: %w", err)
	}
	return nil
}
