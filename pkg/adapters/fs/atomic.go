package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// TempFilePrefix marks the scratch files of an unfinished page write. They
// are hidden and never end in .md, so no glob over pages sees them.
const TempFilePrefix = ".litbook-"

// replacePage puts data at abs through a scratch file in the same folder and
// a rename, so readers see either the old page or the new one. An existing
// page keeps its permissions; a new one gets filePerm.
func replacePage(abs string, data []byte) error {
	perm := iofs.FileMode(filePerm)
	if info, err := os.Stat(abs); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("page %s: %w", abs, err)
	}

	scratch, err := os.CreateTemp(filepath.Dir(abs), TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("page %s: scratch file: %w", abs, err)
	}
	name := scratch.Name()
	defer os.Remove(name) // no-op once renamed

	_, err = scratch.Write(data)
	if err == nil {
		err = scratch.Sync()
	}
	if cerr := scratch.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, perm)
	}
	if err != nil {
		return fmt.Errorf("page %s: %w", abs, err)
	}
	if err := os.Rename(name, abs); err != nil {
		return fmt.Errorf("page %s: %w", abs, err)
	}
	return nil
}
