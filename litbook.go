package litbook

import (
	"log/slog"
	"time"

	"github.com/aretw0/litbook/internal/platform"
	"github.com/aretw0/litbook/pkg/core"
	"github.com/aretw0/litbook/pkg/pipeline"
)

// --- Types ---

// Service runs the stages over one book.
type Service = pipeline.Service

// Report summarizes one stage run.
type Report = core.Report

// Config is the content of litbook.yaml.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// DefaultConfig returns the layout and taxonomy of the published review.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// LoadConfig reads a configuration file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// WithConfig uses cfg instead of reading litbook.yaml.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithConfigFile reads the configuration from path.
func WithConfigFile(path string) Option {
	return platform.WithConfigFile(path)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithClock sets the clock used for the dates printed on pages.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithLoader replaces the CSV loader of the data directory.
func WithLoader(l core.Loader) Option {
	return platform.WithLoader(l)
}

// --- Factory ---

// New creates a Service for the book at root.
func New(root string, opts ...Option) (*Service, error) {
	return platform.New(root, opts...)
}

// FindRoot looks upwards from dir for the root of a book.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
