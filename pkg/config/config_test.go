package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// inEmptyDir runs the test from a directory without config.yaml.
func inEmptyDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	inEmptyDir(t)
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "jpdeck.db", cfg.DBPath)
	require.Equal(t, "https://jpdb.io", cfg.BaseURL)
	require.Equal(t, "output.apkg", cfg.Output)
	require.Equal(t, 1, cfg.Workers)
	require.Equal(t, time.Duration(0), cfg.HTTP.Timeout)
	require.Equal(t, int64(1294895494), cfg.Deck.ID)
	require.Equal(t, int64(1697807219), cfg.Deck.ModelID)
	require.Equal(t, "data/pitch", cfg.Pitch.BankDir)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

const sampleYAML = `
db_path: "cache.db"
workers: 4
http:
  timeout: "15s"
  user_agent: "jpdeck-test"
deck:
  name: "Novel words"
  templates_dir: "tmpl"
pitch:
  bank_dir: "/srv/pitch"
log:
  level: "debug"
`

func TestLoadYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "cache.db", cfg.DBPath)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	require.Equal(t, "jpdeck-test", cfg.HTTP.UserAgent)
	require.Equal(t, "Novel words", cfg.Deck.Name)
	require.Equal(t, "tmpl", cfg.Deck.TemplatesDir)
	require.Equal(t, int64(1294895494), cfg.Deck.ID, "unset keys keep defaults")
	require.Equal(t, "/srv/pitch", cfg.Pitch.BankDir)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), sampleYAML)
	t.Setenv(PathEnv, path)
	t.Setenv("JPDECK_WORKERS", "8")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Workers)
	require.Equal(t, "cache.db", cfg.DBPath)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = " " }},
		{"relative base url", func(c *Config) { c.BaseURL = "jpdb.io" }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative timeout", func(c *Config) { c.HTTP.Timeout = -time.Second }},
		{"zero deck id", func(c *Config) { c.Deck.ID = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				DBPath:  "x.db",
				BaseURL: "https://jpdb.io",
				Workers: 1,
				Deck:    DeckConfig{ID: 1, ModelID: 2},
				Log:     LogConfig{Level: "info"},
			}
			require.NoError(t, cfg.Validate())
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
