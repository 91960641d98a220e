// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hashicorp/go-pathutil/archive"
	"github.com/stretchr/testify/require"
)

// archiveContent describes an entry of a crafted test archive
type archiveContent struct {
	Name       string
	Content    []byte
	Linktarget string
	Mode       os.FileMode
	Filetype   byte
}

// packTar writes a tar file with the given entries and returns its path.
func packTar(t *testing.T, entries []archiveContent) string {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.Name,
			Mode:     int64(e.Mode),
			Size:     int64(len(e.Content)),
			Typeflag: e.Filetype,
			Linkname: e.Linktarget,
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if len(e.Content) > 0 {
			_, err := tw.Write(e.Content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())

	path := filepath.Join(t.TempDir(), "crafted.tar")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestTarUnpack(t *testing.T) {
	// generate canceled context
	canceledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name        string
		archive     string
		opts        []archive.ConfigOption
		expectError bool
		ctx         context.Context
	}{
		{
			name:    "unpack normal tar",
			archive: packTar(t, []archiveContent{{Content: []byte("foobar content"), Name: "test", Mode: 0640, Filetype: tar.TypeReg}}),
		},
		{
			name:        "unpack normal tar, but context canceled",
			archive:     packTar(t, []archiveContent{{Content: []byte("foobar content"), Name: "test", Mode: 0640, Filetype: tar.TypeReg}}),
			ctx:         canceledCtx,
			expectError: true,
		},
		{
			name: "unpack normal tar with 5 files, but file limit",
			archive: packTar(t, []archiveContent{
				{Content: []byte("foobar content"), Name: "test1", Mode: 0640, Filetype: tar.TypeReg},
				{Content: []byte("foobar content"), Name: "test2", Mode: 0640, Filetype: tar.TypeReg},
				{Content: []byte("foobar content"), Name: "test3", Mode: 0640, Filetype: tar.TypeReg},
				{Content: []byte("foobar content"), Name: "test4", Mode: 0640, Filetype: tar.TypeReg},
				{Content: []byte("foobar content"), Name: "test5", Mode: 0640, Filetype: tar.TypeReg},
			}),
			opts:        []archive.ConfigOption{archive.WithMaxFiles(4)},
			expectError: true,
		},
		{
			name:        "unpack normal tar, but extraction size exceeded",
			archive:     packTar(t, []archiveContent{{Content: []byte("foobar content"), Name: "test", Mode: 0640, Filetype: tar.TypeReg}}),
			opts:        []archive.ConfigOption{archive.WithMaxExtractionSize(1)},
			expectError: true,
		},
		{
			name:        "unpack malicious tar, with traversal",
			archive:     packTar(t, []archiveContent{{Content: []byte("foobar content"), Name: "../test", Mode: 0640, Filetype: tar.TypeReg}}),
			expectError: true,
		},
		{
			name:    "unpack normal tar with symlink",
			archive: packTar(t, []archiveContent{{Name: "testLink", Filetype: tar.TypeSymlink, Linktarget: "testTarget"}}),
		},
		{
			name:        "unpack tar with traversal in directory",
			archive:     packTar(t, []archiveContent{{Name: "../test", Filetype: tar.TypeDir}}),
			expectError: true,
		},
		{
			name:        "unpack normal tar with traversal symlink",
			archive:     packTar(t, []archiveContent{{Name: "foo", Linktarget: "../bar", Filetype: tar.TypeSymlink}}),
			expectError: true,
		},
		{
			name:        "unpack normal tar with symlink, but symlinks are denied",
			archive:     packTar(t, []archiveContent{{Name: "testLink", Filetype: tar.TypeSymlink, Linktarget: "testTarget"}}),
			opts:        []archive.ConfigOption{archive.WithDenySymlinkExtraction(true)},
			expectError: true,
		},
		{
			name:        "unpack normal tar with absolute path in symlink",
			archive:     packTar(t, []archiveContent{{Name: "testLink", Filetype: tar.TypeSymlink, Linktarget: "/absolute-target"}}),
			expectError: runtime.GOOS != "windows",
		},
		{
			name:        "malicious tar with .. as filename",
			archive:     packTar(t, []archiveContent{{Content: []byte("foobar content"), Name: "..", Filetype: tar.TypeReg}}),
			expectError: true,
		},
		{
			name:        "malicious tar with FIFO filetype",
			archive:     packTar(t, []archiveContent{{Name: "fifo", Filetype: tar.TypeFifo}}),
			expectError: true,
		},
		{
			name:        "tar with hard link",
			archive:     packTar(t, []archiveContent{{Name: "testLink", Filetype: tar.TypeLink, Linktarget: "testTarget"}}),
			expectError: true,
		},
		{
			name: "malicious tar with zip slip attack",
			archive: packTar(t, []archiveContent{
				{Name: "sub/to-parent", Filetype: tar.TypeSymlink, Linktarget: "../"},
				{Name: "sub/to-parent/one-above", Filetype: tar.TypeSymlink, Linktarget: "../"},
			}),
			expectError: true,
		},
		{
			name:    "tar with legit git pax_global_header",
			archive: packTar(t, []archiveContent{{Content: []byte(""), Name: "pax_global_header", Filetype: tar.TypeXGlobalHeader}}),
		},
		{
			name: "absolute path in filename",
			archive: packTar(t, []archiveContent{
				{Content: []byte("foobar content"), Name: "/absolute-path", Mode: 0640, Filetype: tar.TypeReg},
			}),
		},
		{
			name:    "extract a directory",
			archive: packTar(t, []archiveContent{{Name: "test", Filetype: tar.TypeDir, Mode: 0755}}),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := test.ctx
			if ctx == nil {
				ctx = context.Background()
			}

			s := archive.New(archive.NewConfig(test.opts...))
			err := s.ExtractArchive(ctx, test.archive, t.TempDir(), "tar")
			if test.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestExtractOverwrite(t *testing.T) {
	src := packTar(t, []archiveContent{{Content: []byte("new"), Name: "file", Mode: 0644, Filetype: tar.TypeReg}})

	tests := []struct {
		name        string
		overwrite   bool
		expectError bool
		want        string
	}{
		{name: "overwrite existing file", overwrite: true, want: "new"},
		{name: "keep existing file", overwrite: false, expectError: true, want: "old"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dst := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dst, "file"), []byte("old"), 0644))

			s := archive.New(archive.NewConfig(archive.WithOverwrite(test.overwrite)))
			err := s.ExtractArchive(context.Background(), src, dst, "tar")
			if test.expectError {
				require.ErrorIs(t, err, os.ErrExist)
			} else {
				require.NoError(t, err)
			}

			data, err := os.ReadFile(filepath.Join(dst, "file"))
			require.NoError(t, err)
			require.Equal(t, test.want, string(data))
		})
	}
}

func TestExtractThroughSymlink(t *testing.T) {
	src := packTar(t, []archiveContent{{Content: []byte("x"), Name: "link/file", Mode: 0644, Filetype: tar.TypeReg}})

	dst := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dst, "real"), 0755))
	require.NoError(t, os.Symlink("real", filepath.Join(dst, "link")))

	err := archive.New(nil).ExtractArchive(context.Background(), src, dst, "tar")
	require.ErrorIs(t, err, archive.ErrSymlinkInPath)

	cfg := archive.NewConfig(archive.WithInsecureTraverseSymlinks(true))
	require.NoError(t, archive.New(cfg).ExtractArchive(context.Background(), src, dst, "tar"))
	_, err = os.Stat(filepath.Join(dst, "real", "file"))
	require.NoError(t, err)
}

func TestZipUnpackTraversal(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("../evil")
	require.NoError(t, err)
	_, err = w.Write([]byte("evil"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "evil.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	err = archive.New(nil).ExtractArchive(context.Background(), path, t.TempDir(), "zip")
	require.ErrorIs(t, err, archive.ErrPathTraversal)
}
