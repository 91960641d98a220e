// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// dirTimes remembers the modification time of an extracted directory. Directory times
// are restored after all entries are written, otherwise creating the children would
// touch them again.
type dirTimes struct {
	path    string
	modTime time.Time
}

// extract checks ctx for cancellation, while it reads entries from src and extracts them to dst.
func extract(ctx context.Context, src archiveWalker, dst string, cfg *Config) error {
	cfg.Logger().Info("start extraction", "type", src.Type())

	var objectCounter int64
	var extractedBytes int64
	var dirs []dirTimes

	for {
		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return err
		}

		// get next file
		ae, err := src.Next()

		switch {

		// if no more files are found exit loop
		case errors.Is(err, io.EOF):
			restoreDirTimes(dirs, cfg)
			cfg.Logger().Info("extraction finished", "entries", objectCounter, "bytes", extractedBytes)
			return nil

		// return any other error
		case err != nil:
			return fmt.Errorf("error reading archive: %w", err)

		// skip empty entries
		case ae == nil:
			continue
		}

		// check for to many objects in archive
		objectCounter++
		if err := cfg.CheckMaxFiles(objectCounter); err != nil {
			return err
		}

		// leading slashes are dropped, names stay relative to dst
		name := strings.TrimLeft(ae.Name(), "/")

		cfg.Logger().Debug("extract", "name", name)
		switch {

		case ae.IsDir():
			path, err := createDir(dst, name, ae.Mode().Perm()|0700, cfg)
			if err != nil {
				return fmt.Errorf("failed to create directory %s: %w", name, err)
			}
			dirs = append(dirs, dirTimes{path: path, modTime: ae.ModTime()})

		case ae.IsRegular():

			// check extraction size
			if err := cfg.CheckExtractionSize(extractedBytes + ae.Size()); err != nil {
				return err
			}

			written, err := extractFile(dst, name, ae, remaining(cfg, extractedBytes), cfg)
			extractedBytes += written
			if err != nil {
				return fmt.Errorf("failed to create file %s: %w", name, err)
			}

		case ae.IsSymlink():
			if err := createSymlink(dst, name, ae.Linkname(), ae.ModTime(), cfg); err != nil {
				return fmt.Errorf("failed to create symlink %s: %w", name, err)
			}

		default:
			if cfg.ContinueOnUnsupportedFiles() {
				cfg.Logger().Info("skipping unsupported file", "name", name, "type", ae.Mode().Type())
				continue
			}
			return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFile, name, ae.Mode().Type())
		}
	}
}

// extractFile writes the content of the regular entry ae below dst as name.
func extractFile(dst string, name string, ae archiveEntry, maxSize int64, cfg *Config) (int64, error) {
	fin, err := ae.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer fin.Close()

	// archives written without unix permissions report 0
	mode := ae.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}

	path, written, err := createFile(dst, name, fin, mode, maxSize, cfg)
	if err != nil {
		if errors.Is(err, io.ErrShortWrite) {
			return written, ErrMaxExtractionSizeExceeded
		}
		return written, err
	}

	if mt := ae.ModTime(); !mt.IsZero() {
		if err := chtimes(path, mt); err != nil {
			cfg.Logger().Warn("cannot restore modification time", "path", path, "error", err)
		}
	}
	return written, nil
}

// remaining returns how many bytes may still be written, -1 means unlimited.
func remaining(cfg *Config, extracted int64) int64 {
	if cfg.MaxExtractionSize() == -1 {
		return -1
	}
	return cfg.MaxExtractionSize() - extracted
}

// restoreDirTimes applies the stored modification times, deepest directories first.
func restoreDirTimes(dirs []dirTimes, cfg *Config) {
	for i := len(dirs) - 1; i >= 0; i-- {
		if dirs[i].modTime.IsZero() {
			continue
		}
		if err := chtimes(dirs[i].path, dirs[i].modTime); err != nil {
			cfg.Logger().Warn("cannot restore modification time", "path", dirs[i].path, "error", err)
		}
	}
}
