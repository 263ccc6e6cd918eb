package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the canonical runtime folder layout under the data path.
type Paths struct {
	Logs   string // sqlite log table
	Runlog string // pebble run-history store
	State  string // state root (crash dumps, abort requests, tmp)
	Crash  string
	Abort  string
	Tmp    string
}

// PathsVar is populated by Init during startup and read by other packages.
var PathsVar Paths

// Init computes the folder layout for the given data path and ensures it
// exists. It must be called before the stores are opened.
func Init(dataPath string) error {
	p := Layout(dataPath)
	if err := ensureDirs(p.Logs, p.Runlog, p.Crash, p.Abort, p.Tmp); err != nil {
		return err
	}
	PathsVar = p
	return nil
}

// Layout returns the folder layout for a data path without touching disk.
func Layout(dataPath string) Paths {
	statePath := filepath.Join(dataPath, "state")
	return Paths{
		Logs:   filepath.Join(dataPath, "logs"),
		Runlog: filepath.Join(dataPath, "runlog"),
		State:  statePath,
		Crash:  filepath.Join(statePath, "crash"),
		Abort:  filepath.Join(statePath, "abort"),
		Tmp:    filepath.Join(statePath, "tmp"),
	}
}

// ensureDirs creates the given directories, rejecting symlinks and
// group/other-writable modes, and verifies each is writable.
func ensureDirs(paths ...string) error {
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("cannot create parent for %s: %w", p, err)
		}

		if fi, err := os.Lstat(p); err == nil {
			if fi.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink: %s", p)
			}
			if !fi.IsDir() {
				return fmt.Errorf("path exists and is not a directory: %s", p)
			}
			if fi.Mode().Perm()&0o022 != 0 {
				return fmt.Errorf("path has permissive mode (group/other write): %s", p)
			}
		}

		if err := os.MkdirAll(p, 0o700); err != nil {
			return fmt.Errorf("cannot create path %s: %w", p, err)
		}

		if fi2, err := os.Lstat(p); err == nil {
			if fi2.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink after creation: %s", p)
			}
		}

		// writability check: create and remove a temp file
		tmp, err := os.CreateTemp(p, ".validate-*")
		if err != nil {
			return fmt.Errorf("path not writable: %s: %w", p, err)
		}
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	return nil
}
