// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build no7z

package archive

import "fmt"

// SevenZipFormat reports that 7zip support was left out of this build.
func SevenZipFormat() (UnpackFormat, error) {
	return UnpackFormat{}, fmt.Errorf("%w: 7zip support is disabled (built with no7z)", ErrMissingDependency)
}
