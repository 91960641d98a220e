// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// walkSources calls fn for baseDir and, if it is a directory, for everything below it.
// Symlinks are reported as such and never followed. Entry names are relative to rootDir
// and slash separated. If dst is a file below baseDir, it is left out.
func walkSources(ctx context.Context, dst io.Writer, rootDir string, baseDir string, fn func(sourceEntry) error) error {
	var self fs.FileInfo
	if f, ok := dst.(interface{ Stat() (fs.FileInfo, error) }); ok {
		self, _ = f.Stat()
	}

	start := filepath.Join(rootDir, baseDir)
	return filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// check if context is canceled
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(rootDir, p)
		if err != nil {
			return fmt.Errorf("cannot determine entry name: %w", err)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		// skip the archive that is written
		if self != nil && info.Mode().IsRegular() && os.SameFile(self, info) {
			return nil
		}

		entry := sourceEntry{
			path: p,
			name: filepath.ToSlash(rel),
			info: info,
		}
		if info.Mode()&os.ModeSymlink != 0 {
			if entry.linkname, err = os.Readlink(p); err != nil {
				return err
			}
		}
		return fn(entry)
	})
}
