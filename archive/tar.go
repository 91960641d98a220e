// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// fileExtensionTar is the file extension for tar files
const fileExtensionTar = ".tar"

// TarFormats returns the archive and unpack definitions of a tar based format that
// is compressed with codec. The first extension is used when archives are created.
func TarFormats(name string, description string, codec Codec, extensions ...string) (ArchiveFormat, UnpackFormat) {
	var ext string
	if len(extensions) > 0 {
		ext = extensions[0]
	}
	return ArchiveFormat{
			Name:        name,
			Extension:   ext,
			Description: description,
			Pack:        packTar(codec),
		}, UnpackFormat{
			Name:        name,
			Extensions:  extensions,
			Description: description,
			Unpack:      unpackTar(codec),
		}
}

// packTar returns a PackFunc that writes a tar stream through codec.
func packTar(codec Codec) PackFunc {
	return func(ctx context.Context, dst io.Writer, rootDir string, baseDir string, cfg *Config) error {
		cw, err := codec.NewWriter(dst, cfg.CompressionLevel())
		if err != nil {
			return fmt.Errorf("cannot start %s compression: %w", codec.Name, err)
		}
		tw := tar.NewWriter(cw)

		var files int64
		err = walkSources(ctx, dst, rootDir, baseDir, func(e sourceEntry) error {
			files++
			cfg.Logger().Debug("add", "name", e.name)
			return writeTarEntry(tw, e)
		})
		if err != nil {
			tw.Close()
			cw.Close()
			return err
		}

		if err := tw.Close(); err != nil {
			cw.Close()
			return fmt.Errorf("cannot finish tar stream: %w", err)
		}
		if err := cw.Close(); err != nil {
			return fmt.Errorf("cannot finish %s stream: %w", codec.Name, err)
		}
		cfg.Logger().Info("packed tar", "compression", codec.Name, "entries", files)
		return nil
	}
}

// writeTarEntry writes the header of e and, for regular files, its content.
func writeTarEntry(tw *tar.Writer, e sourceEntry) error {
	hdr, err := tar.FileInfoHeader(e.info, e.linkname)
	if err != nil {
		return fmt.Errorf("cannot create header for %s: %w", e.name, err)
	}
	hdr.Name = e.name
	if e.info.IsDir() && !strings.HasSuffix(hdr.Name, "/") {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !e.info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(e.path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// unpackTar returns an UnpackFunc that reads a tar stream through codec.
func unpackTar(codec Codec) UnpackFunc {
	return func(ctx context.Context, src string, dst string, cfg *Config) error {
		f, err := os.Open(src)
		if err != nil {
			return err
		}
		defer f.Close()

		cr, err := codec.NewReader(f)
		if err != nil {
			return fmt.Errorf("cannot start %s decompression: %w", codec.Name, err)
		}
		defer cr.Close()

		return extract(ctx, &tarWalker{tr: tar.NewReader(cr)}, dst, cfg)
	}
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr *tar.Reader
}

// Type returns the file extension for tar files
func (t *tarWalker) Type() string {
	return fileExtensionTar
}

// Next returns the next entry in the tar archive. Global pax headers carry no file
// and are skipped.
func (t *tarWalker) Next() (archiveEntry, error) {
	for {
		hdr, err := t.tr.Next()
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		return &tarEntry{hdr, t.tr}, nil
	}
}

// tarEntry is an entry in a tar archive
type tarEntry struct {
	hdr *tar.Header
	tr  *tar.Reader
}

// Name returns the name of the entry
func (t *tarEntry) Name() string {
	return t.hdr.Name
}

// Size returns the size of the entry
func (t *tarEntry) Size() int64 {
	return t.hdr.Size
}

// Mode returns the mode of the entry
func (t *tarEntry) Mode() os.FileMode {
	return t.hdr.FileInfo().Mode()
}

// ModTime returns the modification time of the entry
func (t *tarEntry) ModTime() time.Time {
	return t.hdr.ModTime
}

// Linkname returns the linkname of the entry
func (t *tarEntry) Linkname() string {
	return t.hdr.Linkname
}

// IsRegular returns true if the entry is a regular file
func (t *tarEntry) IsRegular() bool {
	return t.hdr.Typeflag == tar.TypeReg
}

// IsDir returns true if the entry is a directory
func (t *tarEntry) IsDir() bool {
	return t.hdr.Typeflag == tar.TypeDir
}

// IsSymlink returns true if the entry is a symlink
func (t *tarEntry) IsSymlink() bool {
	return t.hdr.Typeflag == tar.TypeSymlink
}

// Open returns a reader for the entry
func (t *tarEntry) Open() (io.ReadCloser, error) {
	return io.NopCloser(t.tr), nil
}
