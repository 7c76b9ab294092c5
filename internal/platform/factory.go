package platform

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/litbook/pkg/adapters/fs"
	"github.com/aretw0/litbook/pkg/adapters/table"
	"github.com/aretw0/litbook/pkg/pipeline"
)

// New wires a pipeline service for the book at root.
//
// svc, err := platform.New("./book", platform.WithLogger(logger))
//
// Without WithConfig the configuration is read from WithConfigFile or from
// the litbook.yaml of root; with neither present DefaultConfig is used.
func New(root string, opts ...Option) (*pipeline.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if info, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("book root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("book root %s is not a directory", abs)
	}

	cfg, err := resolveConfig(abs, o)
	if err != nil {
		return nil, err
	}

	loader := o.loader
	if loader == nil {
		loader = table.NewLoader(filepath.Join(abs, filepath.FromSlash(cfg.DataDir)), cfg.Files, o.logger)
	}

	return pipeline.New(pipeline.Params{
		Tree:   fs.NewTree(abs, o.logger),
		Loader: loader,
		Config: cfg.Config,
		Logger: o.logger,
		Now:    o.now,
	})
}

func resolveConfig(root string, o *options) (Config, error) {
	if o.config != nil {
		if err := o.config.Validate(); err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		return *o.config, nil
	}
	if o.configPath != "" {
		return LoadConfig(o.configPath)
	}
	cfg, err := LoadConfig(filepath.Join(root, ConfigFile))
	if errors.Is(err, iofs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}
