// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package archive

import (
	"time"

	"golang.org/x/sys/unix"
)

// lchtimes modifies the access and modified timestamps on a target path
// without following symlinks.
func lchtimes(path string, atime, mtime time.Time) error {
	return unix.Lutimes(path, []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	})
}

// canMaintainSymlinkTimestamps determines whether it is possible to change
// timestamps on symlinks for the current platform.
const canMaintainSymlinkTimestamps = true
