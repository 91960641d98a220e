// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

// Package pathutil provides [Path], a filesystem path value that keeps its flavor
// through every operation that derives a new path from it.
//
// A flavor is a marker type passed as type parameter. Flavors can carry capabilities:
// an [ArchiveFlavor] teaches the archive subsystem a new format the first time an
// archive of that format is created or extracted, and a [HashFlavor] selects the default
// hash algorithm. Archives are created with [Path.MakeArchive] and extracted with
// [Path.UnpackArchive]. The format is resolved from the file suffixes, see [ResolveFormat].
//
// Archive operations run through an [Engine], which owns the archive subsystem and the
// [FormatRegistry]. Use [NewEngine] for an isolated engine and [WithEngine] to select it,
// otherwise the default engine is used.
package pathutil
