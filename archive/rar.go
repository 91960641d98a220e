// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !norar

package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/nwaples/rardecode"
)

// fileExtensionRar is the file extension for Rar files
const fileExtensionRar = ".rar"

// RarFormat returns the unpack definition of the Rar format. Rar archives can only be
// extracted.
func RarFormat() (UnpackFormat, error) {
	return UnpackFormat{
		Name:        "rar",
		Extensions:  []string{fileExtensionRar},
		Description: "RAR file",
		Unpack:      unpackRar,
	}, nil
}

// unpackRar extracts the Rar archive src into dst.
func unpackRar(ctx context.Context, src string, dst string, cfg *Config) error {
	a, err := rardecode.OpenReader(src, "")
	if err != nil {
		return fmt.Errorf("cannot create rar decoder: %w", err)
	}
	defer a.Close()

	cfg.Logger().Info("extracting rar")
	return extract(ctx, &rarWalker{r: &a.Reader, cfg: cfg}, dst, cfg)
}

// rarWalker is an archiveWalker for Rar files
type rarWalker struct {
	r   *rardecode.Reader
	cfg *Config
}

// Type returns the file extension for rar files
func (rw *rarWalker) Type() string {
	return fileExtensionRar
}

// Next returns the next entry in the rar file
func (rw *rarWalker) Next() (archiveEntry, error) {
	fh, err := rw.r.Next()
	if err != nil {
		return nil, err
	}
	re := &rarEntry{fh, rw.r}
	if re.IsSymlink() { // symlink not supported
		if rw.cfg.ContinueOnUnsupportedFiles() {
			rw.cfg.Logger().Info("skipping symlink", "name", re.Name())
			return nil, nil
		}
		return nil, fmt.Errorf("%w: symlink %s", ErrUnsupportedFile, re.Name())
	}
	return re, nil
}

// rarEntry is an archiveEntry for Rar files
type rarEntry struct {
	f *rardecode.FileHeader
	r io.Reader
}

// Name returns the name of the file
func (re *rarEntry) Name() string {
	return re.f.Name
}

// Size returns the size of the file
func (re *rarEntry) Size() int64 {
	return re.f.UnPackedSize
}

// Mode returns the mode of the file
func (re *rarEntry) Mode() os.FileMode {
	return re.f.Mode()
}

// ModTime returns the modification time of the file
func (re *rarEntry) ModTime() time.Time {
	return re.f.ModificationTime
}

// Linkname symlinks are not supported
func (re *rarEntry) Linkname() string {
	return ""
}

// IsRegular returns true if the file is a regular file
func (re *rarEntry) IsRegular() bool {
	return re.f.Mode().IsRegular()
}

// IsDir returns true if the file is a directory
func (re *rarEntry) IsDir() bool {
	return re.f.IsDir
}

// IsSymlink returns true if the file is a symlink
func (re *rarEntry) IsSymlink() bool {
	return re.f.Mode()&fs.ModeSymlink != 0
}

// Open returns a reader for the file
func (re *rarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(re.r), nil
}
