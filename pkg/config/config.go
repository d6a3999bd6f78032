// Package config loads jpdeck settings from YAML and the environment.
package config

import "time"

// Config is the root application configuration.
type Config struct {
	DBPath  string      `yaml:"db_path"  env:"JPDECK_DB_PATH"  env-default:"jpdeck.db"`
	BaseURL string      `yaml:"base_url" env:"JPDECK_BASE_URL" env-default:"https://jpdb.io"`
	Output  string      `yaml:"output"   env:"JPDECK_OUTPUT"   env-default:"output.apkg"`
	Workers int         `yaml:"workers"  env:"JPDECK_WORKERS"  env-default:"1"`
	HTTP    HTTPConfig  `yaml:"http"`
	Deck    DeckConfig  `yaml:"deck"`
	Pitch   PitchConfig `yaml:"pitch"`
	Log     LogConfig   `yaml:"log"`
}

// HTTPConfig holds transport settings. A zero timeout means none.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"    env:"JPDECK_HTTP_TIMEOUT"    env-default:"0s"`
	UserAgent string        `yaml:"user_agent" env:"JPDECK_HTTP_USER_AGENT"`
}

// DeckConfig identifies the exported deck and note type.
type DeckConfig struct {
	ID           int64  `yaml:"id"            env:"JPDECK_DECK_ID"            env-default:"1294895494"`
	Name         string `yaml:"name"          env:"JPDECK_DECK_NAME"          env-default:"jpdeck"`
	ModelID      int64  `yaml:"model_id"      env:"JPDECK_DECK_MODEL_ID"      env-default:"1697807219"`
	ModelName    string `yaml:"model_name"    env:"JPDECK_DECK_MODEL_NAME"    env-default:"jpdeck vocabulary"`
	TemplatesDir string `yaml:"templates_dir" env:"JPDECK_DECK_TEMPLATES_DIR"`
}

// PitchConfig locates the term-meta bank files of the accent dictionary.
type PitchConfig struct {
	BankDir string `yaml:"bank_dir" env:"JPDECK_PITCH_BANK_DIR" env-default:"data/pitch"`
	BankURL string `yaml:"bank_url" env:"JPDECK_PITCH_BANK_URL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"JPDECK_LOG_LEVEL" env-default:"info"`
}
