// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"io"
	"io/fs"
	"time"
)

// archiveWalker is an interface that represents a file walker in an archive
type archiveWalker interface {
	Type() string
	Next() (archiveEntry, error)
}

// archiveEntry is an interface that represents a file in an archive
type archiveEntry interface {
	IsRegular() bool
	IsDir() bool
	IsSymlink() bool
	Linkname() string
	Mode() fs.FileMode
	ModTime() time.Time
	Name() string
	Open() (io.ReadCloser, error)
	Size() int64
}

// sourceEntry is a file on disk that is added to an archive
type sourceEntry struct {
	// path is the location on disk
	path string

	// name is the slash separated name inside the archive
	name string

	// info is the lstat result of path
	info fs.FileInfo

	// linkname is the target of a symlink
	linkname string
}
