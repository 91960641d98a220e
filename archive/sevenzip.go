// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !no7z

package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bodgit/sevenzip"
)

// fileExtension7zip is the file extension for 7zip files
const fileExtension7zip = ".7z"

// SevenZipFormat returns the unpack definition of the 7zip format. 7zip archives can
// only be extracted.
func SevenZipFormat() (UnpackFormat, error) {
	return UnpackFormat{
		Name:        "7z",
		Extensions:  []string{fileExtension7zip},
		Description: "7-Zip file",
		Unpack:      unpack7zip,
	}, nil
}

// unpack7zip extracts the 7zip archive src into dst.
func unpack7zip(ctx context.Context, src string, dst string, cfg *Config) error {
	reader, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("cannot create 7zip reader: %w", err)
	}
	defer reader.Close()

	cfg.Logger().Info("extracting 7zip", "entries", len(reader.File))
	return extract(ctx, &sevenZipWalker{r: &reader.Reader}, dst, cfg)
}

// sevenZipWalker is a walker for 7zip files
type sevenZipWalker struct {
	r  *sevenzip.Reader
	fp int
}

// Type returns the file extension for 7zip files
func (z *sevenZipWalker) Type() string {
	return fileExtension7zip
}

// Next returns the next entry in the 7zip archive
func (z *sevenZipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.r.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &sevenZipEntry{z.r.File[z.fp]}, nil
}

// sevenZipEntry is an entry in a 7zip archive
type sevenZipEntry struct {
	f *sevenzip.File
}

func (z *sevenZipEntry) Name() string {
	return z.f.Name
}

func (z *sevenZipEntry) Size() int64 {
	return z.f.FileInfo().Size()
}

func (z *sevenZipEntry) Mode() os.FileMode {
	return z.f.FileInfo().Mode()
}

func (z *sevenZipEntry) ModTime() time.Time {
	return z.f.Modified
}

// Linkname symlinks are not supported
func (z *sevenZipEntry) Linkname() string {
	return ""
}

func (z *sevenZipEntry) IsRegular() bool {
	return z.f.FileInfo().Mode().IsRegular()
}

func (z *sevenZipEntry) IsDir() bool {
	return z.f.FileInfo().Mode().IsDir()
}

// IsSymlink symlinks are not supported
func (z *sevenZipEntry) IsSymlink() bool {
	return false
}

func (z *sevenZipEntry) Open() (io.ReadCloser, error) {
	return z.f.Open()
}
