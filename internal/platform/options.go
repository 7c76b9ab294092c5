package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/litbook/pkg/core"
)

// options holds the internal configuration for the pipeline service.
type options struct {
	config     *Config
	configPath string
	loader     core.Loader
	logger     *slog.Logger
	now        func() time.Time
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{}
}

// WithConfig uses cfg instead of reading litbook.yaml.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}

// WithConfigFile reads the configuration from path instead of the
// litbook.yaml of the book root. Relative paths are taken from the working
// directory.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets the clock used for the dates printed on pages.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLoader replaces the CSV loader of the data directory.
func WithLoader(l core.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}
