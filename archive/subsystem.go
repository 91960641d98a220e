// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// PackFunc writes an archive to dst that contains baseDir, a path relative to rootDir.
// Entry names inside the archive are relative to rootDir.
type PackFunc func(ctx context.Context, dst io.Writer, rootDir string, baseDir string, cfg *Config) error

// UnpackFunc extracts the archive file src into the directory dst.
type UnpackFunc func(ctx context.Context, src string, dst string, cfg *Config) error

// ArchiveFormat describes how archives of a format are created.
type ArchiveFormat struct {
	// Name is the format name, e.g. "gztar"
	Name string

	// Extension is appended to the base name of a created archive, e.g. ".tar.gz"
	Extension string

	// Description is a human readable description
	Description string

	// Pack writes the archive
	Pack PackFunc
}

// UnpackFormat describes how archives of a format are extracted.
type UnpackFormat struct {
	// Name is the format name, e.g. "gztar"
	Name string

	// Extensions are the file name extensions recognized for this format, e.g. ".tar.gz" and ".tgz"
	Extensions []string

	// Description is a human readable description
	Description string

	// Unpack extracts the archive
	Unpack UnpackFunc
}

// Installer installs pack and unpack routines at runtime.
type Installer interface {
	RegisterArchiveFormat(ArchiveFormat) error
	RegisterUnpackFormat(UnpackFormat) error
}

// Subsystem keeps the ordered tables of known archive and unpack formats and
// creates and extracts archives with them. It is safe for concurrent use.
type Subsystem struct {
	cfg *Config

	mu             sync.RWMutex
	archiveFormats []ArchiveFormat
	unpackFormats  []UnpackFormat
}

// New creates a [Subsystem] with the built-in formats installed: tar, zip, gztar,
// bztar and xztar. A nil cfg selects the default configuration.
func New(cfg *Config) *Subsystem {
	if cfg == nil {
		cfg = NewConfig()
	}
	s := &Subsystem{cfg: cfg}
	for _, b := range builtinFormats() {
		s.archiveFormats = append(s.archiveFormats, b.archive)
		s.unpackFormats = append(s.unpackFormats, b.unpack)
	}
	return s
}

// Config returns the configuration used for packing and unpacking.
func (s *Subsystem) Config() *Config {
	return s.cfg
}

// ArchiveFormats returns a copy of the archive format table in table order.
func (s *Subsystem) ArchiveFormats() []ArchiveFormat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.archiveFormats)
}

// UnpackFormats returns a copy of the unpack format table in table order.
func (s *Subsystem) UnpackFormats() []UnpackFormat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UnpackFormat, len(s.unpackFormats))
	for i, f := range s.unpackFormats {
		f.Extensions = slices.Clone(f.Extensions)
		out[i] = f
	}
	return out
}

// RegisterArchiveFormat installs af. An existing format with the same name is replaced
// in place, so table order is kept.
func (s *Subsystem) RegisterArchiveFormat(af ArchiveFormat) error {
	if af.Name == "" || af.Pack == nil {
		return fmt.Errorf("%w: archive format needs a name and a pack function", ErrInvalidFormat)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.archiveFormats, func(f ArchiveFormat) bool { return f.Name == af.Name }); i >= 0 {
		s.archiveFormats[i] = af
	} else {
		s.archiveFormats = append(s.archiveFormats, af)
	}
	s.cfg.Logger().Debug("registered archive format", "format", af.Name, "extension", af.Extension)
	return nil
}

// RegisterUnpackFormat installs uf. An extension owned by another format is rejected
// with [ErrExtensionRegistered]. An existing format with the same name is replaced in place.
func (s *Subsystem) RegisterUnpackFormat(uf UnpackFormat) error {
	if uf.Name == "" || uf.Unpack == nil {
		return fmt.Errorf("%w: unpack format needs a name and an unpack function", ErrInvalidFormat)
	}
	for _, ext := range uf.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: invalid extension %q", ErrInvalidFormat, ext)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.unpackFormats {
		if f.Name == uf.Name {
			continue
		}
		for _, ext := range uf.Extensions {
			if slices.Contains(f.Extensions, ext) {
				return fmt.Errorf("%w: %s is already registered for %q", ErrExtensionRegistered, ext, f.Name)
			}
		}
	}
	uf.Extensions = slices.Clone(uf.Extensions)
	if i := slices.IndexFunc(s.unpackFormats, func(f UnpackFormat) bool { return f.Name == uf.Name }); i >= 0 {
		s.unpackFormats[i] = uf
	} else {
		s.unpackFormats = append(s.unpackFormats, uf)
	}
	s.cfg.Logger().Debug("registered unpack format", "format", uf.Name, "extensions", uf.Extensions)
	return nil
}

func (s *Subsystem) archiveFormat(name string) (ArchiveFormat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.archiveFormats, func(f ArchiveFormat) bool { return f.Name == name })
	if i < 0 {
		return ArchiveFormat{}, false
	}
	return s.archiveFormats[i], true
}

func (s *Subsystem) unpackFormat(name string) (UnpackFormat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.unpackFormats, func(f UnpackFormat) bool { return f.Name == name })
	if i < 0 {
		return UnpackFormat{}, false
	}
	return s.unpackFormats[i], true
}

// CreateArchive creates an archive of baseDir (relative to rootDir) in format and
// returns the path of the produced file, which is baseName followed by the format's
// own extension. Missing parent directories of baseName are created. A partially
// written archive is removed on failure.
func (s *Subsystem) CreateArchive(ctx context.Context, baseName string, format string, rootDir string, baseDir string) (string, error) {
	af, ok := s.archiveFormat(format)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	produced := baseName + af.Extension
	if err := os.MkdirAll(filepath.Dir(produced), s.cfg.CustomCreateDirMode()); err != nil {
		return "", fmt.Errorf("cannot create archive directory: %w", err)
	}

	s.cfg.Logger().Info("creating archive", "format", format, "archive", produced, "root", rootDir, "base", baseDir)
	f, err := os.OpenFile(produced, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("cannot create archive: %w", err)
	}

	if err := af.Pack(ctx, f, rootDir, baseDir, s.cfg); err != nil {
		f.Close()
		os.Remove(produced)
		return "", fmt.Errorf("cannot pack %s archive: %w", format, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(produced)
		return "", fmt.Errorf("cannot close archive: %w", err)
	}
	return produced, nil
}

// ExtractArchive extracts archivePath into dest using the unpack routine of format.
// dest is created if it does not exist.
func (s *Subsystem) ExtractArchive(ctx context.Context, archivePath string, dest string, format string) error {
	uf, ok := s.unpackFormat(format)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	s.cfg.Logger().Info("extracting archive", "format", format, "archive", archivePath, "destination", dest)
	if err := os.MkdirAll(dest, s.cfg.CustomCreateDirMode()); err != nil {
		return fmt.Errorf("cannot create destination: %w", err)
	}
	if err := uf.Unpack(ctx, archivePath, dest, s.cfg); err != nil {
		return fmt.Errorf("cannot unpack %s archive: %w", format, err)
	}
	return nil
}
