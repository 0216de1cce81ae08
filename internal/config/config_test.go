package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitLoomboardDirCreatesStructure(t *testing.T) {
	home := t.TempDir()
	if err := InitLoomboardDir(home); err != nil {
		t.Fatalf("InitLoomboardDir: %v", err)
	}
	for _, dir := range []string{"state", "logs"} {
		if _, err := os.Stat(filepath.Join(home, LoomboardDir, dir)); err != nil {
			t.Fatalf("missing %s directory: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(home, LoomboardDir, "config.yaml")); err != nil {
		t.Fatalf("missing seeded config file: %v", err)
	}
}

func TestInitLoomboardDirKeepsExistingConfig(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, LoomboardDir, "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	custom := "version: 1\nserver: https://tickets.example.com/api/v1\ndisplay:\n  theme: light\n"
	if err := os.WriteFile(path, []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := InitLoomboardDir(home); err != nil {
		t.Fatalf("InitLoomboardDir: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != custom {
		t.Fatalf("existing config was overwritten")
	}
}

func TestNewDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.ServerURL() != "http://localhost:8080/api/v1" {
		t.Fatalf("default server = %q", cfg.ServerURL())
	}
	if !cfg.DarkMode() {
		t.Fatalf("default theme is not dark")
	}
}

func TestNewNormalizesServerURL(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "version: 1\nserver: https://tickets.example.com/api/v1/\ndisplay:\n  theme: LIGHT\n")

	cfg, err := New(home)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.ServerURL() != "https://tickets.example.com/api/v1" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.ServerURL())
	}
	if cfg.Theme() != ThemeLight {
		t.Fatalf("theme not lowercased: %q", cfg.Theme())
	}
	if cfg.DarkMode() {
		t.Fatalf("light theme reports dark mode")
	}
}

func TestNewRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"relative server": "version: 1\nserver: localhost-no-scheme\n",
		"unknown theme":   "version: 1\ndisplay:\n  theme: solarized\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, body)
			if _, err := New(home); err == nil {
				t.Fatalf("invalid config accepted")
			}
		})
	}
}

func TestSetThemeWritesThrough(t *testing.T) {
	home := t.TempDir()
	if err := InitLoomboardDir(home); err != nil {
		t.Fatal(err)
	}
	cfg, err := New(home)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := cfg.SetTheme(ThemeLight); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if err := cfg.SetTheme("sepia"); err == nil {
		t.Fatalf("unknown theme accepted")
	}

	reloaded, err := New(home)
	if err != nil {
		t.Fatalf("New after SetTheme: %v", err)
	}
	if reloaded.Theme() != ThemeLight {
		t.Fatalf("persisted theme = %q, want light", reloaded.Theme())
	}
}

func TestSetServerURLWritesThrough(t *testing.T) {
	home := t.TempDir()
	if err := InitLoomboardDir(home); err != nil {
		t.Fatal(err)
	}
	cfg, err := New(home)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := cfg.SetServerURL("https://tickets.example.com/api/v1"); err != nil {
		t.Fatalf("SetServerURL: %v", err)
	}
	if err := cfg.SetServerURL("   "); err == nil {
		t.Fatalf("blank server accepted")
	}

	reloaded, err := New(home)
	if err != nil {
		t.Fatalf("New after SetServerURL: %v", err)
	}
	if !strings.HasPrefix(reloaded.ServerURL(), "https://tickets.example.com") {
		t.Fatalf("persisted server = %q", reloaded.ServerURL())
	}
}

func TestPaths(t *testing.T) {
	cfg, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.TokenPath() != filepath.Join(cfg.StateDir(), "token") {
		t.Fatalf("token path = %q", cfg.TokenPath())
	}
	if filepath.Dir(cfg.StateDir()) != cfg.LoomboardHome {
		t.Fatalf("state dir not under loomboard home: %q", cfg.StateDir())
	}
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	path := filepath.Join(home, LoomboardDir, "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
