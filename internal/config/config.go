// Package config loads runtime settings for the CLI and HTTP adapter.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/petasbytes/persona-engine/internal/runner"
)

// APIKeyEnv is the environment-level default credential.
const APIKeyEnv = "ANTHROPIC_API_KEY"

type Config struct {
	APIKey   string
	Model    string
	Timeout  time.Duration
	LogLevel string
	Addr     string
}

func getEnv(key, defaultValue string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultValue
}

// Load reads .env files (missing files are ignored; existing variables win)
// and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
				return nil, fmt.Errorf("load env file %s: %w", f, err)
			}
		}
	}

	conf := &Config{
		APIKey:   getEnv(APIKeyEnv, ""),
		Model:    getEnv("PERSONA_MODEL", ""),
		LogLevel: getEnv("PERSONA_LOG_LEVEL", "info"),
		Addr:     getEnv("PERSONA_ADDR", ":1323"),
	}
	if v := getEnv("PERSONA_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PERSONA_TIMEOUT %q: %w", v, err)
		}
		conf.Timeout = d
	}
	return conf, nil
}

// ResolveCredential returns explicit when it is non-blank, otherwise the
// configured environment default. Both are trimmed.
func (c *Config) ResolveCredential(explicit string) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	return strings.TrimSpace(c.APIKey)
}

// RunnerOptions turns the model settings into engine options.
func (c *Config) RunnerOptions() []runner.Option {
	return []runner.Option{
		runner.WithModel(c.Model),
		runner.WithTimeout(c.Timeout),
	}
}
