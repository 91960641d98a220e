// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// createFile creates the file name below dst with src as content and returns its path and
// the number of bytes written.
//
// Missing parent directories are created with cfg.CustomCreateDirMode(). If the path contains
// path traversal or a symlink, the function returns an error. If the file exists and
// cfg.Overwrite() returns false, the function returns an error. At most maxSize bytes are
// written, if maxSize < 0 the size is not limited.
func createFile(dst string, name string, src io.Reader, mode fs.FileMode, maxSize int64, cfg *Config) (string, int64, error) {
	// check if a name is provided
	if len(name) == 0 {
		return "", 0, fmt.Errorf("cannot create file without name")
	}

	// ensures that the directory exists and is safe to write to
	if _, err := createDir(dst, pathDir(name), cfg.CustomCreateDirMode(), cfg); err != nil {
		return "", 0, fmt.Errorf("cannot create directory: %w", err)
	}

	// ensure that if the file exist that it is not a symlink
	if err := securityCheck(dst, name, cfg); err != nil {
		return "", 0, err
	}
	path := filepath.Join(dst, toOSPath(name))

	// Check for path validity and if file existence+overwrite
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		if err != nil {
			return "", 0, fmt.Errorf("invalid path: %w", err)
		}
		if !cfg.Overwrite() {
			return "", 0, fmt.Errorf("file already exists: %w", fs.ErrExist)
		}
	}

	dstFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer dstFile.Close()

	n, err := io.Copy(limitWriter(dstFile, maxSize), src)
	if err != nil {
		return path, n, fmt.Errorf("failed to write file: %w", err)
	}
	return path, n, nil
}

// createDir creates the directory name below dst and returns its path.
//
// If the path contains path traversal or a symlink, the function returns an error. If the
// path contains a symlink and cfg.TraverseSymlinks() returns true, a warning is logged and
// the function continues.
func createDir(dst string, name string, mode fs.FileMode, cfg *Config) (string, error) {
	// no action needed
	if name == "." || name == "" || name == "/" {
		return dst, nil
	}

	// perform security check to ensure that the path is safe to write to
	if err := securityCheck(dst, name, cfg); err != nil {
		return "", err
	}

	path := filepath.Join(dst, toOSPath(name))
	if err := os.MkdirAll(path, mode.Perm()); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return path, nil
}

// createSymlink creates the symlink name below dst pointing to linkTarget.
//
// Symlink extraction can be denied with cfg.DenySymlinkExtraction(). Absolute link targets
// and link targets that point outside of dst are refused.
func createSymlink(dst string, name string, linkTarget string, modTime time.Time, cfg *Config) error {
	// check if symlink extraction is denied
	if cfg.DenySymlinkExtraction() {
		return fmt.Errorf("%w: symlink %s", ErrUnsupportedFile, name)
	}

	// check if a name is provided
	if len(name) == 0 {
		return fmt.Errorf("empty name")
	}

	// Check if link target is absolute path
	if filepath.IsAbs(linkTarget) || strings.HasPrefix(linkTarget, "/") {
		return fmt.Errorf("%w: symlink with absolute path as target: %s", ErrPathTraversal, linkTarget)
	}

	// create link dir && check for traversal in file name
	linkDirectory := pathDir(name)
	if _, err := createDir(dst, linkDirectory, cfg.CustomCreateDirMode(), cfg); err != nil {
		return fmt.Errorf("cannot create directory for symlink: %w", err)
	}

	// check link target for traversal
	if err := securityCheck(dst, filepath.Join(toOSPath(linkDirectory), toOSPath(linkTarget)), cfg); err != nil {
		return fmt.Errorf("symlink target security check failed: %w", err)
	}

	newname := filepath.Join(dst, toOSPath(name))
	if _, err := os.Lstat(newname); !os.IsNotExist(err) {
		if !cfg.Overwrite() {
			return fmt.Errorf("file already exists: %w", fs.ErrExist)
		}
		if err := os.Remove(newname); err != nil {
			return fmt.Errorf("failed to overwrite file: %w", err)
		}
	}

	if err := os.Symlink(linkTarget, newname); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}

	if canMaintainSymlinkTimestamps && !modTime.IsZero() {
		if err := lchtimes(newname, modTime, modTime); err != nil {
			cfg.Logger().Warn("cannot restore symlink modification time", "path", newname, "error", err)
		}
	}
	return nil
}

// securityCheck checks if path, relative to dst, contains path traversal and if
// any element of it is a symlink.
//
// If the path contains a symlink and cfg.TraverseSymlinks() returns true, a warning is
// logged and the function continues.
func securityCheck(dst string, path string, cfg *Config) error {
	path = toOSPath(path)
	if filepath.IsAbs(path) {
		return fmt.Errorf("%w: absolute path %s", ErrPathTraversal, path)
	}

	// check if the relative path is local
	rel, err := filepath.Rel(dst, filepath.Join(dst, path))
	if err != nil {
		return fmt.Errorf("failed to get relative path: %w", err)
	}
	if rel != "." && !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: %s", ErrPathTraversal, path)
	}

	// check each dir in path
	elements := strings.Split(filepath.Clean(path), string(os.PathSeparator))
	for i := range elements {
		subDirs := filepath.Join(elements[:i+1]...)
		if subDirs == "." || subDirs == "" {
			continue
		}

		stat, err := os.Lstat(filepath.Join(dst, subDirs))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// nothing below a missing element can exist
				return nil
			}
			return fmt.Errorf("invalid path: %w", err)
		}

		if stat.Mode()&os.ModeSymlink != 0 {
			if !cfg.TraverseSymlinks() {
				return fmt.Errorf("%w: %s", ErrSymlinkInPath, subDirs)
			}
			cfg.Logger().Warn("traverse symlink", "sub-dir", subDirs)
		}
	}

	return nil
}

// toOSPath converts a slash separated archive name into an os specific path.
func toOSPath(name string) string {
	return filepath.FromSlash(name)
}

// pathDir returns the directory part of a slash separated archive name.
func pathDir(name string) string {
	name = strings.TrimSuffix(name, "/")
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return "."
	}
	return name[:i]
}

// chtimes sets access and modification time of path to modTime.
func chtimes(path string, modTime time.Time) error {
	return os.Chtimes(path, modTime, modTime)
}

// limitErrorWriter is a wrapper around an io.Writer that returns io.ErrShortWrite
// when the limit is reached.
type limitErrorWriter struct {
	W io.Writer // underlying writer
	L int64     // limit
	N int64     // number of bytes written
}

// Write writes up to len(p) bytes from p to the underlying data stream. The limit is
// enforced by returning io.ErrShortWrite when the limit is reached.
func (l *limitErrorWriter) Write(p []byte) (n int, err error) {
	// check if we reached the limit
	if l.N >= l.L {
		return 0, io.ErrShortWrite
	}

	// write until we reach the limit
	if int64(len(p)) > l.L-l.N {
		p = p[0 : l.L-l.N]
		n, err = l.W.Write(p)
		if err == nil {
			err = io.ErrShortWrite
		}
		l.N += int64(n)
		return n, err
	}

	// write normally
	n, err = l.W.Write(p)
	l.N += int64(n)
	return n, err
}

// limitWriter returns a writer that fails once more than maxSize bytes are written.
// A negative maxSize disables the limit.
func limitWriter(w io.Writer, maxSize int64) io.Writer {
	if maxSize < 0 {
		return w
	}
	return &limitErrorWriter{W: w, L: maxSize}
}
