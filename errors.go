// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"errors"

	"github.com/hashicorp/go-pathutil/archive"
)

var (
	// ErrSourceNotFound is returned when the path that is archived or extracted does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrTargetExists is returned when an archive should be created at a path that
	// already exists and overwriting was not requested.
	ErrTargetExists = errors.New("target exists")

	// ErrFormatUnknown is returned when neither the archive subsystem nor the format
	// registry knows a format name.
	ErrFormatUnknown = archive.ErrUnknownFormat

	// ErrMissingDependency is returned by a format registration that cannot install its
	// pack or unpack routine, e.g. because support was left out of the build.
	ErrMissingDependency = archive.ErrMissingDependency

	// ErrInvalidSuffix is returned for a malformed argument to a suffix transformation.
	ErrInvalidSuffix = errors.New("invalid suffix")

	// ErrInvalidName is returned for a malformed argument to a name transformation.
	ErrInvalidName = errors.New("invalid name")

	// ErrNotRelative is returned when a path cannot be expressed relative to another one.
	ErrNotRelative = errors.New("path is not relative")

	// ErrDigestTooShort is returned by a non-strict verification with a digest shorter
	// than [MinDigestLength].
	ErrDigestTooShort = errors.New("digest too short")

	// ErrInvalidDigestLength is returned for a digest length of a variable length
	// algorithm that is not positive.
	ErrInvalidDigestLength = errors.New("invalid digest length")

	// ErrUnknownAlgorithm is returned for a hash algorithm name that is not supported.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
)
