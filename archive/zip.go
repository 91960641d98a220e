// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
)

// fileExtensionZip is the file extension for zip files.
const fileExtensionZip = ".zip"

// ZipFormats returns the archive and unpack definitions of the zip format.
func ZipFormats() (ArchiveFormat, UnpackFormat) {
	return ArchiveFormat{
			Name:        "zip",
			Extension:   fileExtensionZip,
			Description: "ZIP file",
			Pack:        packZip,
		}, UnpackFormat{
			Name:        "zip",
			Extensions:  []string{fileExtensionZip},
			Description: "ZIP file",
			Unpack:      unpackZip,
		}
}

// packZip writes a deflate compressed zip archive. Symlinks are stored as symlink
// entries with the link target as content.
func packZip(ctx context.Context, dst io.Writer, rootDir string, baseDir string, cfg *Config) error {
	zw := zip.NewWriter(dst)
	level := cfg.CompressionLevel()
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})

	var files int64
	err := walkSources(ctx, dst, rootDir, baseDir, func(e sourceEntry) error {
		files++
		cfg.Logger().Debug("add", "name", e.name)
		return writeZipEntry(zw, e)
	})
	if err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("cannot finish zip archive: %w", err)
	}
	cfg.Logger().Info("packed zip", "entries", files)
	return nil
}

// writeZipEntry writes e into zw.
func writeZipEntry(zw *zip.Writer, e sourceEntry) error {
	hdr, err := zip.FileInfoHeader(e.info)
	if err != nil {
		return fmt.Errorf("cannot create header for %s: %w", e.name, err)
	}
	hdr.Name = e.name

	switch {
	case e.info.IsDir():
		if !strings.HasSuffix(hdr.Name, "/") {
			hdr.Name += "/"
		}
		hdr.Method = zip.Store
		_, err := zw.CreateHeader(hdr)
		return err

	case e.info.Mode()&os.ModeSymlink != 0:
		hdr.Method = zip.Store
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, e.linkname)
		return err

	case e.info.Mode().IsRegular():
		hdr.Method = zip.Deflate
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		f, err := os.Open(e.path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedFile, e.name)
}

// unpackZip extracts the zip archive src into dst.
func unpackZip(ctx context.Context, src string, dst string, cfg *Config) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("cannot create zip reader: %w", err)
	}
	defer reader.Close()

	cfg.Logger().Info("extracting zip", "entries", len(reader.File))
	return extract(ctx, &zipWalker{zr: &reader.Reader}, dst, cfg)
}

// zipWalker is a walker for zip files
type zipWalker struct {
	zr *zip.Reader
	fp int
}

// Type returns the file extension for zip files
func (z *zipWalker) Type() string {
	return fileExtensionZip
}

// Next returns the next entry in the zip archive
func (z *zipWalker) Next() (archiveEntry, error) {
	if z.fp >= len(z.zr.File) {
		return nil, io.EOF
	}
	defer func() { z.fp++ }()
	return &zipEntry{z.zr.File[z.fp]}, nil
}

// zipEntry is an entry in a zip archive
type zipEntry struct {
	zf *zip.File
}

// Name returns the name of the entry
func (z *zipEntry) Name() string {
	return z.zf.FileHeader.Name
}

// Size returns the size of the entry
func (z *zipEntry) Size() int64 {
	return int64(z.zf.FileHeader.UncompressedSize64)
}

// Mode returns the mode of the entry
func (z *zipEntry) Mode() os.FileMode {
	return z.zf.FileHeader.Mode()
}

// ModTime returns the modification time of the entry
func (z *zipEntry) ModTime() time.Time {
	return z.zf.FileHeader.Modified
}

// Linkname returns the linkname of the entry
func (z *zipEntry) Linkname() string {
	rc, err := z.zf.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	return string(data)
}

// IsRegular returns true if the entry is a regular file
func (z *zipEntry) IsRegular() bool {
	return z.zf.FileHeader.Mode().Type() == 0
}

// IsDir returns true if the entry is a directory
func (z *zipEntry) IsDir() bool {
	return z.zf.FileHeader.Mode().Type() == os.ModeDir
}

// IsSymlink returns true if the entry is a symlink
func (z *zipEntry) IsSymlink() bool {
	return z.zf.FileHeader.Mode().Type() == os.ModeSymlink
}

// Open returns a reader for the entry
func (z *zipEntry) Open() (io.ReadCloser, error) {
	return z.zf.Open()
}
