package core

import "context"

// Loader reads the source tables.
// Adhering to this interface keeps the pipeline independent of where the
// tables live (CSV exports, spreadsheets, fixtures in tests).
type Loader interface {
	// Load returns the full dataset. Any error is fatal for the run.
	Load(ctx context.Context) (*Dataset, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Dataset, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context) (*Dataset, error) {
	return f(ctx)
}
