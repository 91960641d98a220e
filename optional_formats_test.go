// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

//go:build !no7z && !norar

package pathutil_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-pathutil"
	"github.com/hashicorp/go-pathutil/archive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test7zipArchiveBase64 holds test/data with "Hello World!".
var test7zipArchiveBase64 = "N3q8ryccAASa8Y55cwAAAAAAAAAgAAAAAAAAAKfoD5gBAAtIZWxsbyBXb3JsZCEAAACBMweuD87ysgwHyEN/QbH6/duIttdja4vVig4kovcXpfFW439B/QCDMphCHV0IjAz5h7MMBHNmNZnk0vIctpYgA48QRYEJZiE1wwJBifQnmavjInsXSoU+gk+Aiy76qwAAFwYQAQljAAcLAQABIwMBAQVdABAAAAx2CgFbz6CnAAA="

// testRarArchiveBase64 holds dir/, dir/foo, file and the symlink link -> dir/foo.
var testRarArchiveBase64 = "UmFyIRoHAQAzkrXlCgEFBgAFAQGAgAADk1YoJQIDC50ABJ0ApIMClAgA9IAAAQdkaXIvZm9vCgMTQPjXZsjBSQhNaSAgNCBTZXAgMjAyNCAwODowMzo0NCBDRVNUCpQdu+oiAgMLnQAEnQCkgwI+z7uqgAABBGZpbGUKAxPEDddmxHsQDkRpICAzIFNlcCAyMDI0IDE1OjIzOjE2IENFU1QKe1xvKCwCAxcABAftwwIAAAAAgAABBGxpbmsKAxNM+NdmSCZHGAsFAQAHZGlyL2Zvb0A2hh0bAgMLAAEA7YMBgAABA2RpcgoDE0D412Z533kHHXdWUQMFBAA="

func writeFixture(t *testing.T, path string, b64 string) {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestUnpackArchiveSevenZip(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "test.7z")
	writeFixture(t, src, test7zipArchiveBase64)
	rec := &telemetryRecorder{}
	e := pathutil.NewEngine(pathutil.WithTelemetryHook(rec.hook))
	ctx := context.Background()

	// unknown until a SevenZip path installs the format
	_, err := pathutil.New[pathutil.Plain](src).UnpackArchive(ctx, filepath.Join(tmp, "plain"), pathutil.WithEngine(e))
	assert.ErrorIs(t, err, pathutil.ErrFormatUnknown)

	out := filepath.Join(tmp, "out")
	dir, err := pathutil.New[pathutil.SevenZip](src).UnpackArchive(ctx, out, pathutil.WithEngine(e))
	require.NoError(t, err)
	assert.IsType(t, pathutil.Path[pathutil.SevenZip]{}, dir)
	assert.Equal(t, "7z", rec.last().Format)
	assert.Equal(t, 2, rec.last().Attempts)
	assert.True(t, rec.last().Activated)
	assert.Equal(t, map[string]string{"test/data": "Hello World!"}, readTree(t, out))

	// installed formats serve every flavor
	again := filepath.Join(tmp, "again")
	_, err = pathutil.New[pathutil.Plain](src).UnpackArchive(ctx, again, pathutil.WithEngine(e))
	require.NoError(t, err)
	assert.Equal(t, 1, rec.last().Attempts)
	assert.Equal(t, map[string]string{"test/data": "Hello World!"}, readTree(t, again))
}

func TestUnpackArchiveRar(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "test.rar")
	writeFixture(t, src, testRarArchiveBase64)
	ctx := context.Background()

	// the symlink entry is refused by default
	_, err := pathutil.New[pathutil.Rar](src).UnpackArchive(ctx, filepath.Join(tmp, "strict"), pathutil.WithEngine(pathutil.NewEngine()))
	assert.ErrorIs(t, err, archive.ErrUnsupportedFile)

	e := pathutil.NewEngine(pathutil.WithArchiveConfig(archive.NewConfig(archive.WithContinueOnUnsupportedFiles(true))))
	out := filepath.Join(tmp, "out")
	dir, err := pathutil.New[pathutil.Rar](src).UnpackArchive(ctx, out, pathutil.WithEngine(e))
	require.NoError(t, err)
	assert.IsType(t, pathutil.Path[pathutil.Rar]{}, dir)
	assert.Equal(t, map[string]string{
		"dir/foo": "Mi  4 Sep 2024 08:03:44 CEST\n",
		"file":    "Di  3 Sep 2024 15:23:16 CEST\n",
	}, readTree(t, out))
	assert.Contains(t, e.ArchiveFormats(), "rar")
}
