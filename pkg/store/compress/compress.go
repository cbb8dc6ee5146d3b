// Package compress provides value compression for warm-store backends,
// useful once values routinely carry the kind of redundant JSON/text
// payloads a storage adapter tends to cache.
package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Compressor encodes and decodes byte payloads. Extension names the file
// suffix a store keeping one blob per key should append, so a directory
// listing reveals which codec wrote each entry at a glance.
type Compressor interface {
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
	Extension() string
}

// None returns a zero-copy, zero-overhead Compressor for callers that want
// the Store decorator's plumbing without actually compressing anything.
func None() Compressor { return noneCompressor{} }

type noneCompressor struct{}

func (noneCompressor) Encode(src []byte) ([]byte, error) { return src, nil }
func (noneCompressor) Decode(src []byte) ([]byte, error) { return src, nil }
func (noneCompressor) Extension() string                 { return "" }

// S2 returns a Compressor backed by klauspost/compress's S2 codec, tuned
// for speed over ratio.
func S2() Compressor { return s2Compressor{} }

type s2Compressor struct{}

func (s2Compressor) Encode(src []byte) ([]byte, error) { return s2.Encode(nil, src), nil }

func (s2Compressor) Decode(src []byte) ([]byte, error) {
	dst, err := s2.Decode(nil, src)
	if err != nil {
		return nil, fmt.Errorf("s2 decode: %w", err)
	}
	return dst, nil
}

func (s2Compressor) Extension() string { return ".s" }

// Zstd returns a Compressor backed by klauspost/compress's zstd codec.
// level is a standard zstd compression level, mapped by
// zstd.EncoderLevelFromZstd onto the encoder's four presets: below 3 is
// fastest, 3-5 default, 6-9 better compression, 10 and up best compression.
func Zstd(level int) Compressor { return zstdCompressor{level: zstd.EncoderLevelFromZstd(level)} }

type zstdCompressor struct{ level zstd.EncoderLevel }

func (z zstdCompressor) Encode(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(z.level))
	if err != nil {
		return nil, fmt.Errorf("new zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func (zstdCompressor) Decode(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("new zstd decoder: %w", err)
	}
	defer dec.Close()
	dst, err := dec.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return dst, nil
}

func (zstdCompressor) Extension() string { return ".z" }
