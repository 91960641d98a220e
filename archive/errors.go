// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

import "errors"

var (
	// ErrUnknownFormat is returned when no pack or unpack routine is installed for a format name.
	ErrUnknownFormat = errors.New("unknown archive format")

	// ErrExtensionRegistered is returned when an unpack format claims an extension
	// that another format already owns.
	ErrExtensionRegistered = errors.New("extension already registered")

	// ErrInvalidFormat is returned when a format definition is incomplete.
	ErrInvalidFormat = errors.New("invalid format definition")

	// ErrMaxFilesExceeded indicates that the maximum number of files is exceeded.
	ErrMaxFilesExceeded = errors.New("maximum files exceeded")

	// ErrMaxExtractionSizeExceeded indicates that the maximum size is exceeded.
	ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

	// ErrPathTraversal indicates an archive entry that would be written outside of the destination.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrSymlinkInPath indicates an archive entry that would be written through a symlink.
	ErrSymlinkInPath = errors.New("symlink in path")

	// ErrUnsupportedFile indicates an archive entry of a type that cannot be extracted.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ErrMissingDependency indicates that support for a format was left out of the build.
var ErrMissingDependency = errors.New("missing dependency")
