// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"io"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Codec is a stream compression that wraps a tar stream.
type Codec struct {
	// Name of the compression, e.g. "gzip"
	Name string

	// NewWriter wraps w with a compressing writer. level is -1 for the codec default.
	NewWriter func(w io.Writer, level int) (io.WriteCloser, error)

	// NewReader wraps r with a decompressing reader.
	NewReader func(r io.Reader) (io.ReadCloser, error)
}

var (
	// CodecNone passes the stream through.
	CodecNone = Codec{
		Name: "none",
		NewWriter: func(w io.Writer, _ int) (io.WriteCloser, error) {
			return nopWriteCloser{w}, nil
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}

	// CodecGzip compresses with gzip.
	CodecGzip = Codec{
		Name: "gzip",
		NewWriter: func(w io.Writer, level int) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, level)
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return gzip.NewReader(r)
		},
	}

	// CodecBzip2 compresses with bzip2.
	CodecBzip2 = Codec{
		Name: "bzip2",
		NewWriter: func(w io.Writer, level int) (io.WriteCloser, error) {
			if level < bzip2.BestSpeed || level > bzip2.BestCompression {
				level = bzip2.DefaultCompression
			}
			return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return bzip2.NewReader(r, nil)
		},
	}

	// CodecXz compresses with xz.
	CodecXz = Codec{
		Name: "xz",
		NewWriter: func(w io.Writer, _ int) (io.WriteCloser, error) {
			return xz.NewWriter(w)
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
	}

	// CodecZstd compresses with zstandard.
	CodecZstd = Codec{
		Name: "zstd",
		NewWriter: func(w io.Writer, level int) (io.WriteCloser, error) {
			if level < 1 {
				return zstd.NewWriter(w)
			}
			return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
	}

	// CodecLz4 compresses with lz4 frames.
	CodecLz4 = Codec{
		Name: "lz4",
		NewWriter: func(w io.Writer, _ int) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(lz4.NewReader(r)), nil
		},
	}

	// CodecBrotli compresses with brotli.
	CodecBrotli = Codec{
		Name: "brotli",
		NewWriter: func(w io.Writer, level int) (io.WriteCloser, error) {
			if level < brotli.BestSpeed || level > brotli.BestCompression {
				level = brotli.DefaultCompression
			}
			return brotli.NewWriterLevel(w, level), nil
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(brotli.NewReader(r)), nil
		},
	}

	// CodecSnappy compresses with the snappy framing format.
	CodecSnappy = Codec{
		Name: "snappy",
		NewWriter: func(w io.Writer, _ int) (io.WriteCloser, error) {
			return snappy.NewBufferedWriter(w), nil
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			return io.NopCloser(snappy.NewReader(r)), nil
		},
	}
)

// nopWriteCloser adds a no-op Close to a writer.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
