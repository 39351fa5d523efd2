package texfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/erinpentecost/ddstex/internal/texerr"
)

const zstdExt = ".zst"

// IsZstd reports whether path names a zstd wrapped file.
func IsZstd(path string) bool {
	return strings.EqualFold(filepath.Ext(path), zstdExt)
}

// InnerExt is the lower case extension of path once any .zst suffix is
// removed, so "a.dds.zst" gives ".dds".
func InnerExt(path string) string {
	if IsZstd(path) {
		path = path[:len(path)-len(zstdExt)]
	}
	return strings.ToLower(filepath.Ext(path))
}

// Stem strips the directory, any .zst suffix and the inner extension.
func Stem(path string) string {
	base := filepath.Base(path)
	if IsZstd(base) {
		base = base[:len(base)-len(zstdExt)]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadFile returns the contents of path, decompressed when it ends in .zst.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !IsZstd(path) {
		return raw, nil
	}
	return Decompress(raw)
}

// WriteFile writes data to path, compressing it when path ends in .zst.
func WriteFile(path string, data []byte) error {
	if IsZstd(path) {
		var err error
		if data, err = Compress(data); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0666)
}

// Compress wraps data in a single zstd frame.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("texfile: zstd writer: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress unwraps every zstd frame in data.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("texfile: zstd reader: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: texfile: zstd: %v", texerr.ErrInvalidData, err)
	}
	return out, nil
}
