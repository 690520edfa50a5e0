package swc

import (
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Match reports whether name looks like an SWC file, possibly compressed
// (.swc, .swc.gz, .swc.zst, .swc.lz4).
func Match(name string) bool {
	return strings.HasSuffix(strings.ToLower(BaseName(name)), ".swc")
}

// BaseName strips a trailing compression extension, leaving the .swc name.
func BaseName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz", ".zst", ".lz4":
		return strings.TrimSuffix(name, path.Ext(name))
	}
	return name
}

// WrapReader wraps r in a decompressor chosen by the filename extension.
// Unrecognized extensions pass through unchanged.
func WrapReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		return gzip.NewReader(r)
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// WrapWriter wraps w in a compressor chosen by the filename extension.
// Unrecognized extensions pass through unchanged. The returned writer must
// be closed to flush; closing it does not close w.
func WrapWriter(name string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		return gzip.NewWriter(w), nil
	case ".zst":
		return zstd.NewWriter(w)
	case ".lz4":
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
