package core

import "errors"

// Common errors.
var (
	// ErrMissingColumn means a source table lacks a required column. Fatal.
	ErrMissingColumn = errors.New("required column missing")

	// ErrSourceMissing means a page expected at a path does not exist.
	ErrSourceMissing = errors.New("source page not found")

	// ErrTargetExists means a move would overwrite a different page.
	ErrTargetExists = errors.New("target page already exists")

	// ErrMappingCollision means two distinct titles share one destination folder.
	ErrMappingCollision = errors.New("mapping collision")

	// ErrFolderMismatch means a declared folder name does not reflect its title.
	ErrFolderMismatch = errors.New("folder does not match title")
)
