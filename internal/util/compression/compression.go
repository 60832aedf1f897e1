// Package compression encodes and decodes posts documents stored compressed.
package compression

import (
	"bytes"
	"path"
	"strings"
)

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Detect picks a decompressor from the payload's magic bytes, falling back
// to the name's extension. It returns nil for uncompressed data.
func Detect(name string, data []byte) Compressor {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return ZstdCompressor{}
	case bytes.HasPrefix(data, gzipMagic):
		return GzipCompressor{}
	}
	return ForName(name)
}

// ForName returns the compressor implied by a file extension, or nil.
func ForName(name string) Compressor {
	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return ZstdCompressor{}
	case ".gz", ".gzip":
		return GzipCompressor{}
	}
	return nil
}

// ByName resolves a compressor from a CLI flag value.
func ByName(name string) (Compressor, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, true
	case "zstd", "zst":
		return ZstdCompressor{}, true
	case "gzip", "gz":
		return GzipCompressor{}, true
	}
	return nil, false
}

// Decode decompresses data when it is recognizably compressed.
func Decode(name string, data []byte) ([]byte, error) {
	c := Detect(name, data)
	if c == nil {
		return data, nil
	}
	return c.Decompress(data)
}
