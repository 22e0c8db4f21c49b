package runner

import (
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/persona-engine/internal/provider"
)

// Config collects the knobs shared by both engines.
type Config struct {
	Model          anthropic.Model
	Timeout        time.Duration
	RequestOptions []option.RequestOption
}

type Option func(*Config)

// WithModel overrides provider.DefaultModel. Empty keeps the default.
func WithModel(model string) Option {
	return func(c *Config) {
		if model != "" {
			c.Model = anthropic.Model(model)
		}
	}
}

// WithTimeout bounds each model call. Non-positive keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRequestOptions passes options through to the Anthropic client.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *Config) { c.RequestOptions = append(c.RequestOptions, opts...) }
}

// Build constructs a Runner for an already validated credential.
// Client construction failures are initialization errors.
func Build(credential string, opts ...Option) (*Runner, error) {
	var cfg Config
	for _, o := range opts {
		o(&cfg)
	}
	client, err := provider.NewAnthropicClient(credential, cfg.RequestOptions...)
	if err != nil {
		return nil, err
	}
	return New(client, cfg.Model, cfg.Timeout), nil
}
