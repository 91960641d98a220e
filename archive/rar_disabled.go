// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build norar

package archive

import "fmt"

// RarFormat reports that Rar support was left out of this build.
func RarFormat() (UnpackFormat, error) {
	return UnpackFormat{}, fmt.Errorf("%w: rar support is disabled (built with norar)", ErrMissingDependency)
}
