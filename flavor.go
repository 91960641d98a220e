// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"reflect"

	"github.com/hashicorp/go-pathutil/archive"
)

// Flavor is the type parameter of [Path]. Any type can serve as flavor, usually an empty
// struct. Capabilities are discovered on the zero value, see [ArchiveFlavor] and
// [HashFlavor].
type Flavor interface{}

// ArchiveFlavor is implemented by flavors that add an archive format.
//
// ArchiveFormat returns the format name, which should be the compound suffix of the
// archive files without dots (".tar.zst" becomes "tarzst") so that [ResolveFormat]
// finds it before the format is installed. RegisterArchiveFormat installs the pack
// and unpack routines into the archive subsystem. It runs the first time an archive
// operation meets the unknown format.
type ArchiveFlavor interface {
	ArchiveFormat() string
	RegisterArchiveFormat(archive.Installer) error
}

// HashFlavor is implemented by flavors that choose the default hash algorithm.
type HashFlavor interface {
	DefaultHash() string
}

// Declare makes the archive format of F known to e. A flavor that does not implement
// [ArchiveFlavor] or returns an empty format name contributes nothing. Declaring the
// same flavor again has no effect, declaring another flavor with the same format name
// replaces the earlier registration.
//
// Archive operations on a Path[F] declare F for the engine in use.
func Declare[F Flavor](e *Engine) {
	t := reflect.TypeOf((*F)(nil)).Elem()
	if _, loaded := e.declared.LoadOrStore(t, struct{}{}); loaded {
		return
	}

	var zero F
	af, ok := any(zero).(ArchiveFlavor)
	if !ok {
		return
	}
	name := af.ArchiveFormat()
	e.registry.Declare(name, func() error {
		e.logger.Info("registering archive format", "format", name, "flavor", t.String())
		return af.RegisterArchiveFormat(e.archiver)
	})
	e.logger.Debug("declared archive format", "format", name, "flavor", t.String())
}

// Plain is the flavor without capabilities.
type Plain struct{}

// TarZstd adds the "tarzst" format for zstandard compressed tar files.
type TarZstd struct{}

func (TarZstd) ArchiveFormat() string { return "tarzst" }

func (TarZstd) RegisterArchiveFormat(in archive.Installer) error {
	return installTar(in, "tarzst", "zstd'ed tar-file", archive.CodecZstd, ".tar.zst", ".tzst")
}

// TarLz4 adds the "tarlz4" format for lz4 compressed tar files.
type TarLz4 struct{}

func (TarLz4) ArchiveFormat() string { return "tarlz4" }

func (TarLz4) RegisterArchiveFormat(in archive.Installer) error {
	return installTar(in, "tarlz4", "lz4'ed tar-file", archive.CodecLz4, ".tar.lz4")
}

// TarBrotli adds the "tarbr" format for brotli compressed tar files.
type TarBrotli struct{}

func (TarBrotli) ArchiveFormat() string { return "tarbr" }

func (TarBrotli) RegisterArchiveFormat(in archive.Installer) error {
	return installTar(in, "tarbr", "brotli'ed tar-file", archive.CodecBrotli, ".tar.br")
}

// TarSnappy adds the "tarsz" format for snappy framed tar files.
type TarSnappy struct{}

func (TarSnappy) ArchiveFormat() string { return "tarsz" }

func (TarSnappy) RegisterArchiveFormat(in archive.Installer) error {
	return installTar(in, "tarsz", "snappy'ed tar-file", archive.CodecSnappy, ".tar.sz")
}

// SevenZip adds extraction of 7zip archives. Creating 7zip archives is not supported.
type SevenZip struct{}

func (SevenZip) ArchiveFormat() string { return "7z" }

func (SevenZip) RegisterArchiveFormat(in archive.Installer) error {
	uf, err := archive.SevenZipFormat()
	if err != nil {
		return err
	}
	return in.RegisterUnpackFormat(uf)
}

// Rar adds extraction of Rar archives. Creating Rar archives is not supported.
type Rar struct{}

func (Rar) ArchiveFormat() string { return "rar" }

func (Rar) RegisterArchiveFormat(in archive.Installer) error {
	uf, err := archive.RarFormat()
	if err != nil {
		return err
	}
	return in.RegisterUnpackFormat(uf)
}

// installTar registers a compressed tar format for packing and unpacking.
func installTar(in archive.Installer, name string, description string, codec archive.Codec, extensions ...string) error {
	af, uf := archive.TarFormats(name, description, codec, extensions...)
	if err := in.RegisterArchiveFormat(af); err != nil {
		return err
	}
	return in.RegisterUnpackFormat(uf)
}
