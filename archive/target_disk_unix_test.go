// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build unix

package archive_test

import (
	"archive/tar"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-pathutil/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackKeepsTimestamps(t *testing.T) {
	tests := []struct {
		name    string
		modTime time.Time
	}{
		{name: "epoch", modTime: time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)},
		{name: "y2k", modTime: time.Date(2000, 1, 1, 12, 30, 0, 0, time.UTC)},
		{name: "recent", modTime: time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tw := tar.NewWriter(&buf)
			headers := []*tar.Header{
				{Name: "dir/", Typeflag: tar.TypeDir, Mode: 0755, ModTime: tc.modTime},
				{Name: "dir/target", Typeflag: tar.TypeReg, Mode: 0644, Size: 4, ModTime: tc.modTime},
				{Name: "dir/link", Typeflag: tar.TypeSymlink, Linkname: "target", ModTime: tc.modTime},
			}
			for _, hdr := range headers {
				require.NoError(t, tw.WriteHeader(hdr))
				if hdr.Size > 0 {
					_, err := tw.Write([]byte("data"))
					require.NoError(t, err)
				}
			}
			require.NoError(t, tw.Close())

			tmp := t.TempDir()
			src := filepath.Join(tmp, "times.tar")
			require.NoError(t, os.WriteFile(src, buf.Bytes(), 0644))
			dst := filepath.Join(tmp, "out")
			require.NoError(t, archive.New(nil).ExtractArchive(context.Background(), src, dst, "tar"))

			for _, name := range []string{"dir", "dir/target", "dir/link"} {
				fi, err := os.Lstat(filepath.Join(dst, filepath.FromSlash(name)))
				require.NoError(t, err)
				assert.True(t, fi.ModTime().Equal(tc.modTime), "%s: got %s, want %s", name, fi.ModTime(), tc.modTime)
			}
		})
	}
}
