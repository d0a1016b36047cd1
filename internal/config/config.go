package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL = "https://api.curseforge.com/v1"
	DefaultOutputDir  = "resource-pack"

	EnvAPIKey    = "API_KEY"
	EnvAPIURL    = "CURSEFORGE_API_URL"
	EnvOutputDir = "MOD_LANG_OUTPUT_DIR"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("missing " + EnvAPIKey + " environment variable")

// Config is loaded once at process start and treated as read-only afterwards.
type Config struct {
	APIBaseURL string
	APIKey     string
	OutputDir  string
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		APIBaseURL: strings.TrimRight(strings.TrimSpace(getenv(EnvAPIURL)), "/"),
		APIKey:     strings.TrimSpace(getenv(EnvAPIKey)),
		OutputDir:  strings.TrimSpace(getenv(EnvOutputDir)),
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	return cfg
}

// Validate checks the settings required to talk to the mod API.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
