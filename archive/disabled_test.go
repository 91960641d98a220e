// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build no7z && norar

package archive_test

import (
	"testing"

	"github.com/hashicorp/go-pathutil/archive"
	"github.com/stretchr/testify/assert"
)

func TestDisabledFormats(t *testing.T) {
	_, err := archive.SevenZipFormat()
	assert.ErrorIs(t, err, archive.ErrMissingDependency)

	_, err = archive.RarFormat()
	assert.ErrorIs(t, err, archive.ErrMissingDependency)
}
