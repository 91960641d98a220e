// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

// builtinFormat pairs the archive and unpack definition of a format.
type builtinFormat struct {
	archive ArchiveFormat
	unpack  UnpackFormat
}

// builtinFormats returns the formats every [Subsystem] starts with, in table order.
func builtinFormats() []builtinFormat {
	pair := func(a ArchiveFormat, u UnpackFormat) builtinFormat {
		return builtinFormat{archive: a, unpack: u}
	}
	return []builtinFormat{
		pair(TarFormats("tar", "uncompressed tar file", CodecNone, ".tar")),
		pair(ZipFormats()),
		pair(TarFormats("gztar", "gzip'ed tar-file", CodecGzip, ".tar.gz", ".tgz")),
		pair(TarFormats("bztar", "bzip2'ed tar-file", CodecBzip2, ".tar.bz2", ".tbz2")),
		pair(TarFormats("xztar", "xz'ed tar-file", CodecXz, ".tar.xz", ".txz")),
	}
}
