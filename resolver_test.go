// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil_test

import (
	"testing"

	"github.com/hashicorp/go-pathutil"
	"github.com/hashicorp/go-pathutil/archive"
	"github.com/stretchr/testify/assert"
)

func TestResolveFormat(t *testing.T) {
	table := archive.New(nil).UnpackFormats()

	tests := []struct {
		input  string
		format string
	}{
		{input: "test.tar.gz", format: "gztar"},
		{input: "test.tgz", format: "gztar"},
		{input: "dir/test.zip", format: "zip"},
		{input: "test.tar", format: "tar"},
		{input: "test.tar.bz2", format: "bztar"},
		{input: "test.txz", format: "xztar"},
		{input: "test.abc", format: "abc"},
		{input: "test.tar.zst", format: "tarzst"},
		{input: "test.foo.bar", format: "foobar"},
		{input: "test", format: ""},
		{input: "test.", format: ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.format, pathutil.ResolveFormat(table, pathutil.ParseLocation(tc.input)))
		})
	}
}

func TestResolveFormatTableOrder(t *testing.T) {
	table := []archive.UnpackFormat{
		{Name: "first", Extensions: []string{".x"}},
		{Name: "second", Extensions: []string{".x", ".y"}},
	}
	assert.Equal(t, "first", pathutil.ResolveFormat(table, pathutil.ParseLocation("a.x")))
	assert.Equal(t, "second", pathutil.ResolveFormat(table, pathutil.ParseLocation("a.y")))
}
