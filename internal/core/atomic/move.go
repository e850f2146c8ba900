package atomic

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cp "github.com/otiai10/copy"
)

// MoveOptions specifies options for move operations
type MoveOptions struct {
	AllowCrossDev bool // Allow copy-and-delete when rename cannot work
	Force         bool // Replace whatever is at the destination
}

// Move relocates a single file. It renames when src and dst share a
// device and otherwise copies then removes the source. Unless Force is set
// an occupied destination is an error, never overwritten.
func Move(src, dst string, opts MoveOptions) error {
	// 1. Validate paths
	if err := validatePaths(src, dst); err != nil {
		return err
	}

	// 2. Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return NewMoveError("create_parent", src, dst, err)
	}

	// 3. Check destination existence if not force mode
	if !opts.Force {
		if _, err := os.Lstat(dst); err == nil {
			return NewMoveError("check_destination", src, dst, ErrDestinationExists)
		}
	}

	// 4. Same device: a plain rename
	sameDevice, err := isSamePartition(src, dst)
	if err != nil {
		slog.Debug("could not compare devices, trying rename", "src", src, "dst", dst, "error", err)
		sameDevice = true
	}
	if sameDevice {
		err := os.Rename(src, dst)
		if err == nil {
			return nil
		}
		if !opts.AllowCrossDev {
			return NewMoveError("rename", src, dst, err)
		}
		slog.Debug("rename failed, falling back to copy", "src", src, "dst", dst, "error", err)
	} else if !opts.AllowCrossDev {
		return NewMoveError("rename", src, dst, ErrCrossDeviceMove)
	}

	// 5. Fall back to copy and delete
	return copyAndDelete(src, dst)
}

// copyAndDelete copies a file and then deletes the original
func copyAndDelete(src, dst string) error {
	slog.Debug("starting copy and delete operation", "from", src, "to", dst)
	opts := cp.Options{
		AddPermission: 0, // Don't modify permissions
		OnSymlink: func(src string) cp.SymlinkAction {
			return cp.Shallow // Move the link, not its target
		},
		PreserveTimes: true,
		PreserveOwner: false,
		Sync:          true,
	}

	if err := cp.Copy(src, dst, opts); err != nil {
		return NewMoveError("copy", src, dst, err)
	}

	// If copy succeeds, remove source
	if err := os.Remove(src); err != nil {
		// Try to clean up destination on failure
		if rmErr := os.Remove(dst); rmErr != nil {
			return NewMoveError("cleanup", src, dst,
				fmt.Errorf("failed to remove both source and destination: %v, %v", err, rmErr))
		}
		return NewMoveError("remove_source", src, dst, err)
	}

	return nil
}

// validatePaths performs basic path validation
func validatePaths(src, dst string) error {
	if src == "" || dst == "" {
		return ErrInvalidPath
	}

	if _, err := os.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return NewMoveError("stat_source", src, dst, ErrSourceNotFound)
		}
		return NewMoveError("stat_source", src, dst, err)
	}

	return nil
}
